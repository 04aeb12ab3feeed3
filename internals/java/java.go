package java

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	archiver "github.com/mholt/archiver/v3"
)

// Java is one (possibly not yet downloaded) local java runtime
type Java struct {
	dir              string
	asset            *adoptAsset
	needsDownloading bool
}

// Bin returns the path of the java binary of this runtime
func (j *Java) Bin() string {
	var bin string
	switch runtime.GOOS {
	case "windows":
		bin = "bin/java.exe"
	case "darwin": // macOS
		bin = "Contents/Home/bin/java"
	default:
		bin = "bin/java"
	}

	return filepath.Join(j.dir, bin)
}

// NeedsDownloading reports if Update has to be called before Bin is usable
func (j *Java) NeedsDownloading() bool {
	return j.needsDownloading
}

// Update downloads or updates this java version
func (j *Java) Update(ctx context.Context) error {
	// remove everything, partial installs are worthless
	if err := os.RemoveAll(j.dir); err != nil {
		return err
	}
	os.RemoveAll(j.dir + ".tmp")

	archive, err := j.download(ctx)
	if err != nil {
		return err
	}
	defer os.Remove(archive.Name())

	// the archive root is something like "jdk8u292-b10-jre"
	rootDirName := ""
	err = archiver.Walk(archive.Name(), func(f archiver.File) error {
		if f.IsDir() {
			rootDirName = f.Name()
			return archiver.ErrStopWalk
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := archiver.Unarchive(archive.Name(), j.dir+".tmp"); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(j.dir+".tmp", rootDirName), j.dir); err != nil {
		return err
	}
	// macos archives leave clutter next to the root dir
	if err := os.RemoveAll(j.dir + ".tmp"); err != nil {
		return err
	}

	asset, err := os.Create(filepath.Join(j.dir, "asset.json"))
	if err != nil {
		return err
	}
	defer asset.Close()

	if err := json.NewEncoder(asset).Encode(j.asset); err != nil {
		return err
	}

	j.needsDownloading = false
	return nil
}

func (j *Java) download(ctx context.Context) (*os.File, error) {
	url := j.asset.Binaries[0].Package.Link
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	ext := ".tar.gz"
	if !strings.HasSuffix(url, ".tar.gz") {
		ext = filepath.Ext(url)
	}
	archive, err := os.CreateTemp("", "lodestone-java.*"+ext)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	if _, err := io.Copy(archive, res.Body); err != nil {
		return nil, err
	}

	return archive, nil
}
