// Package batch fetches per-item details in fixed-size concurrent windows
// for providers whose search call yields only identifiers.
package batch

import (
	"context"
	"log"
	"time"

	"github.com/amityadav/stagefinder/internal/search"
	"golang.org/x/sync/errgroup"
)

// DefaultWindow is the number of detail calls in flight at once.
const DefaultWindow = 5

// ItemError records one failed detail fetch.
type ItemError struct {
	ID  string
	Err error
}

// FetchFunc fetches the detail record for one identifier.
type FetchFunc func(ctx context.Context, id string) (search.RawRecord, error)

// Fetcher processes identifiers window by window. Within a window all calls
// run concurrently and the whole window settles before the next one starts;
// one item's failure never cancels its siblings.
type Fetcher struct {
	Window int
	Delay  time.Duration // fixed pause between windows
}

// NewFetcher creates a fetcher; window values < 1 default to DefaultWindow.
func NewFetcher(window int, delay time.Duration) *Fetcher {
	if window < 1 {
		window = DefaultWindow
	}
	return &Fetcher{Window: window, Delay: delay}
}

// Fetch resolves all ids, returning successes in id order alongside the
// failures. Failures accompany the successes, they never replace them.
func (f *Fetcher) Fetch(ctx context.Context, ids []string, fn FetchFunc) ([]search.RawRecord, []ItemError) {
	records := make([]search.RawRecord, len(ids))
	errs := make([]error, len(ids))

	for start := 0; start < len(ids); start += f.Window {
		end := start + f.Window
		if end > len(ids) {
			end = len(ids)
		}

		if start > 0 && f.Delay > 0 {
			time.Sleep(f.Delay)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				record, err := fn(gctx, ids[i])
				if err != nil {
					// Stored, not returned: returning it would cancel
					// the rest of the window.
					errs[i] = err
					return nil
				}
				records[i] = record
				return nil
			})
		}
		_ = g.Wait()
	}

	var ok []search.RawRecord
	var failed []ItemError
	for i := range ids {
		switch {
		case errs[i] != nil:
			failed = append(failed, ItemError{ID: ids[i], Err: errs[i]})
		case records[i] != nil:
			ok = append(ok, records[i])
		}
	}

	if len(failed) > 0 {
		log.Printf("[Batch] %d/%d detail fetches failed", len(failed), len(ids))
	}
	return ok, failed
}
