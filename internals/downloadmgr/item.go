package downloadmgr

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxRetries is the retry budget for hash mismatches
const DefaultMaxRetries = 3

// chunkSize for streaming response bodies to disk
const chunkSize = 32 * 1024

// DefaultClient returns the shared http client used when a manager has
// none configured. Callers may use it for one-off downloads
func DefaultClient() *http.Client {
	return defaultClient
}

var defaultClient = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   20 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// Item is a URL, target pair that will be downloaded using http(s).
// When Sha1 is set the download is verified and retried on mismatch
type Item struct {
	URL    string
	Target string
	// Sha1 is the expected content hash (hex, case-insensitive).
	// Empty disables verification (index-type files)
	Sha1 string
	// Size in bytes, informational
	Size int
	// MaxRetries is the retry budget for hash mismatches,
	// 0 means DefaultMaxRetries
	MaxRetries int
}

// NewItem creates an item to be queued. Verification is enabled by
// passing the expected sha1
func NewItem(url string, target string, sha1 string) *Item {
	if url == "" {
		panic("download URL can not be empty")
	}
	if target == "" {
		panic("download target can not be empty")
	}
	return &Item{URL: url, Target: target, Sha1: sha1}
}

// Name is a short description of the item for progress messages
func (i *Item) Name() string {
	return filepath.Base(i.Target)
}

// ErrInvalidHash is returned when a downloaded file's hash does not
// match the expected one after the retry budget is exhausted
type ErrInvalidHash struct {
	FileName     string
	ExpectedHash string
	ActualHash   string
}

func (e *ErrInvalidHash) Error() string {
	return fmt.Sprintf(
		"file corrupted: %s sha1 is %q, expected %q",
		e.FileName,
		e.ActualHash,
		e.ExpectedHash,
	)
}

// download fetches the item. Only verification failures consume the
// retry budget, everything else (network, status, fs) fails right away.
// onAttempt (may be nil) fires before every network attempt, so a
// retrying item stays visible to progress sinks
func (i *Item) download(ctx context.Context, client *http.Client, onAttempt func(attempt int)) (attempts int, err error) {
	// hash-valid files are never re-downloaded. this is what makes the
	// whole pipeline resumable
	if i.Sha1 != "" {
		if valid, _ := verifyFile(i.Target, i.Sha1); valid {
			return 0, nil
		}
	}

	retries := i.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	for attempts = 1; attempts <= retries; attempts++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return attempts, ctxErr
		}
		if onAttempt != nil {
			onAttempt(attempts)
		}

		err = i.fetch(ctx, client)
		if err == nil {
			return attempts, nil
		}

		// only corruption is worth retrying
		var invalidHash *ErrInvalidHash
		if !errors.As(err, &invalidHash) {
			return attempts, err
		}
	}

	return retries, err
}

func (i *Item) fetch(ctx context.Context, client *http.Client) error {
	if err := os.MkdirAll(filepath.Dir(i.Target), os.ModePerm); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.URL, nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", i.URL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid status code %s from %s", res.Status, i.URL)
	}

	// stream to a tmp sibling and rename into place at the end. the
	// final target either holds a complete body or nothing, an aborted
	// connection never poisons later resume runs
	tmp := i.Target + ".tmp"
	dest, err := os.Create(tmp)
	if err != nil {
		return err
	}

	// stream to disk while hashing, chunk by chunk
	hasher := sha1.New()
	_, err = io.CopyBuffer(io.MultiWriter(dest, hasher), res.Body, make([]byte, chunkSize))
	if err != nil {
		dest.Close()
		os.Remove(tmp)
		return err
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		os.Remove(tmp)
		return err
	}
	if err := dest.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if i.Sha1 != "" {
		actual := fmt.Sprintf("%x", hasher.Sum(nil))
		if !strings.EqualFold(actual, i.Sha1) {
			// never leave a corrupt file behind
			os.Remove(tmp)
			return &ErrInvalidHash{
				FileName:     i.Target,
				ExpectedHash: strings.ToLower(i.Sha1),
				ActualHash:   actual,
			}
		}
	}

	return os.Rename(tmp, i.Target)
}

// verifyFile reports whether the file exists and matches the hash
func verifyFile(path string, expected string) (bool, error) {
	src, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer src.Close()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, src); err != nil {
		return false, err
	}
	actual := fmt.Sprintf("%x", hasher.Sum(nil))
	return strings.EqualFold(actual, expected), nil
}
