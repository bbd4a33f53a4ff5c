package subgraph

import "sync"

// pageSet accumulates the result pages of one (filter, order) query key.
//
// The merge is append-only: pages are concatenated in arrival order with no
// deduplication, which is only correct when the caller requests pages
// sequentially and awaits each before the next for the same key. Entries
// for abandoned parameter sets are never evicted; nothing reads them again.
type pageSet[T any] struct {
	mu     sync.Mutex
	merged int // number of pages appended so far
	items  []T
}

// has reports whether the given zero-based page has already been merged.
func (p *pageSet[T]) has(page int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return page < p.merged
}

// append concatenates one more page onto the entry.
func (p *pageSet[T]) append(items []T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.merged++
	p.items = append(p.items, items...)
}

// reset replaces the entry with a fresh first page, discarding everything
// merged so far. Used when a subscribed query reconciles with the network.
func (p *pageSet[T]) reset(items []T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.merged = 1
	p.items = append([]T(nil), items...)
}

// snapshot returns a copy of the merged records.
func (p *pageSet[T]) snapshot() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}
