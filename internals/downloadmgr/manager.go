package downloadmgr

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// DefaultWorkers caps how many downloads run at once. Remote hosts do
// not appreciate a few thousand parallel asset requests
const DefaultWorkers = 16

// ProgressFunc is invoked around every download attempt.
// done/total count terminal items, message names the current one
type ProgressFunc func(done int, total int, message string)

// Result is the terminal state of one queued item
type Result struct {
	Item     *Item
	Attempts int
	Err      error
}

// DownloadManager downloads a queue of items concurrently with hash
// verification and per-item retries
type DownloadManager struct {
	queue      []*Item
	Client     *http.Client
	Workers    int
	OnProgress ProgressFunc
}

// New creates a new download manager
func New() *DownloadManager {
	return &DownloadManager{
		Client:  defaultClient,
		Workers: DefaultWorkers,
	}
}

// Add adds a new item to the queue
func (d *DownloadManager) Add(i *Item) {
	d.queue = append(d.queue, i)
}

// Len returns the number of queued items
func (d *DownloadManager) Len() int {
	return len(d.queue)
}

// Start downloads the whole queue. One item failing does not abort its
// siblings: every item reaches a terminal state and shows up in the
// returned results. The returned error summarizes the failed items (nil
// when everything succeeded). The queue is drained afterwards.
func (d *DownloadManager) Start(ctx context.Context) ([]Result, error) {
	queue := d.queue
	d.queue = nil
	if len(queue) == 0 {
		return nil, nil
	}

	workers := d.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	client := d.Client
	if client == nil {
		client = defaultClient
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]Result, 0, len(queue))
		done    int
	)

	sem := make(chan struct{}, workers)

	progress := func(msg string) {
		if d.OnProgress == nil {
			return
		}
		mu.Lock()
		current := done
		mu.Unlock()
		d.OnProgress(current, len(queue), msg)
	}

	for _, item := range queue {
		// cancellation is honored between item starts. in-flight requests
		// are killed through the request context
		if err := ctx.Err(); err != nil {
			mu.Lock()
			results = append(results, Result{Item: item, Err: err})
			mu.Unlock()
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(item *Item) {
			defer wg.Done()
			defer func() { <-sem }()

			attempts, err := item.download(ctx, client, func(attempt int) {
				if attempt == 1 {
					progress("downloading " + item.Name())
					return
				}
				progress(fmt.Sprintf("retrying %s (attempt %d)", item.Name(), attempt))
			})
			if attempts == 0 {
				// already valid on disk, the sink still gets a heartbeat
				progress("downloading " + item.Name())
			}

			mu.Lock()
			done++
			results = append(results, Result{Item: item, Attempts: attempts, Err: err})
			mu.Unlock()

			if err != nil {
				progress("failed " + item.Name())
			} else {
				progress("finished " + item.Name())
			}
		}(item)
	}

	wg.Wait()

	failed := 0
	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
		}
	}
	if failed != 0 {
		return results, fmt.Errorf("%d of %d downloads failed: %w", failed, len(queue), firstErr)
	}
	return results, nil
}
