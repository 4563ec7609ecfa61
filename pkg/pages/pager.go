package pages

import (
	"context"
	"fmt"
)

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items []T

	// TotalPages is the page count reported by the server, or 0 if unknown.
	TotalPages int
}

// FetchFunc retrieves the 1-indexed page of a listing.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// Pager lazily walks a paginated listing. It is not safe for concurrent use.
type Pager[T any] struct {
	fetch FetchFunc[T]

	page  int // last page fetched
	items []T
	pos   int
	cur   T
	done  bool
	err   error
}

// NewPager returns a Pager that starts at page 1.
func NewPager[T any](fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch}
}

// Next advances to the next item, fetching the next page when the current
// one is exhausted. It returns false when the listing ends or a fetch fails;
// check Err to tell the two apart.
func (p *Pager[T]) Next(ctx context.Context) bool {
	for p.pos >= len(p.items) {
		if p.done || p.err != nil {
			return false
		}
		if err := ctx.Err(); err != nil {
			p.err = err
			return false
		}

		next := p.page + 1
		page, err := p.fetch(ctx, next)
		if err != nil {
			p.err = fmt.Errorf("fetch page %d: %w", next, err)
			return false
		}

		p.page = next
		p.items = page.Items
		p.pos = 0

		// An empty page always ends the listing; a known page count ends it
		// once the last page has been read.
		if len(page.Items) == 0 || (page.TotalPages > 0 && next >= page.TotalPages) {
			p.done = true
		}
	}

	p.cur = p.items[p.pos]
	p.pos++
	return true
}

// Value returns the current item.
func (p *Pager[T]) Value() T {
	return p.cur
}

// Err returns the error that stopped iteration, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// Page returns the number of the last page fetched.
func (p *Pager[T]) Page() int {
	return p.page
}
