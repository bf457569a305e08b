package search

import (
	"context"
	"log"
	"time"
)

// Paginator drives one adapter across sequential pages until the requested
// count is reached or the provider runs out of records. Pages are never
// fetched concurrently: the early-stop decision for page N+1 depends on
// page N.
type Paginator struct {
	// Delay is the fixed pause between page calls, honoring provider rate
	// limits. Zero disables the pause (tests).
	Delay time.Duration
}

// NewPaginator creates a paginator with a fixed inter-page delay.
func NewPaginator(delay time.Duration) *Paginator {
	return &Paginator{Delay: delay}
}

// FetchUpTo accumulates raw events from successive pages, starting at
// startPage, until requestedSize records are collected, a short page signals
// exhaustion, or the computed page budget is spent. The returned result
// carries at most requestedSize records; TotalResults/TotalPages come from
// the first page and are not recomputed. The second return value is the
// number of adapter calls made.
//
// If a page call fails, pagination stops and whatever was accumulated is
// returned; Success is true only when at least one record was collected.
func (p *Paginator) FetchUpTo(ctx context.Context, adapter Provider, strategy SearchStrategy, loc Location, requestedSize, startPage int) (*ProviderSearchResult, int) {
	pageCap := adapter.PageCap()
	pagesNeeded := (requestedSize + pageCap - 1) / pageCap

	var accumulated []RawRecord
	first := &ProviderSearchResult{}
	calls := 0

	for i := 0; i < pagesNeeded; i++ {
		if i > 0 && p.Delay > 0 {
			time.Sleep(p.Delay)
		}

		page := startPage + i
		res := adapter.Search(ctx, strategy, loc, pageCap, page)
		calls++

		if !res.Success {
			log.Printf("[Paginator] %s page %d failed: %v (keeping %d accumulated)", adapter.Name(), page, res.Err, len(accumulated))
			return &ProviderSearchResult{
				Success:      len(accumulated) > 0,
				RawEvents:    truncateRaw(accumulated, requestedSize),
				TotalResults: first.TotalResults,
				TotalPages:   first.TotalPages,
				CurrentPage:  startPage,
				PageSize:     pageCap,
				Err:          res.Err,
			}, calls
		}

		if i == 0 {
			first = res
		}
		accumulated = append(accumulated, res.RawEvents...)

		if len(accumulated) >= requestedSize {
			break
		}
		// A short page means the provider has nothing more to give.
		if len(res.RawEvents) < pageCap {
			log.Printf("[Paginator] %s page %d returned %d/%d records, supply exhausted", adapter.Name(), page, len(res.RawEvents), pageCap)
			break
		}
	}

	return &ProviderSearchResult{
		Success:      true,
		RawEvents:    truncateRaw(accumulated, requestedSize),
		TotalResults: first.TotalResults,
		TotalPages:   first.TotalPages,
		CurrentPage:  startPage,
		PageSize:     pageCap,
	}, calls
}

func truncateRaw(records []RawRecord, limit int) []RawRecord {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
