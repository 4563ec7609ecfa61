package pages

import (
	"context"
	"errors"
	"testing"
)

// pagedFetch serves items in fixed-size pages and records which pages were requested.
func pagedFetch(items []int, size int, reportTotal bool, requested *[]int) FetchFunc[int] {
	return func(ctx context.Context, page int) (Page[int], error) {
		*requested = append(*requested, page)
		start := (page - 1) * size
		if start >= len(items) {
			return Page[int]{}, nil
		}
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		p := Page[int]{Items: items[start:end]}
		if reportTotal {
			p.TotalPages = (len(items) + size - 1) / size
		}
		return p, nil
	}
}

func TestPager_WalksAllPagesInOrder(t *testing.T) {
	tests := []struct {
		name         string
		items        []int
		size         int
		reportTotal  bool
		wantRequests []int
	}{
		{"total pages known", []int{1, 2, 3, 4, 5}, 2, true, []int{1, 2, 3}},
		{"stops on empty page", []int{1, 2, 3, 4, 5}, 2, false, []int{1, 2, 3, 4}},
		{"empty listing", nil, 2, false, []int{1}},
		{"exact multiple with total", []int{1, 2, 3, 4}, 2, true, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requested []int
			pager := NewPager(pagedFetch(tt.items, tt.size, tt.reportTotal, &requested))

			var got []int
			for pager.Next(context.Background()) {
				got = append(got, pager.Value())
			}

			if err := pager.Err(); err != nil {
				t.Fatalf("Err() = %v, want nil", err)
			}
			if len(got) != len(tt.items) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.items))
			}
			for i := range got {
				if got[i] != tt.items[i] {
					t.Errorf("item %d = %d, want %d", i, got[i], tt.items[i])
				}
			}
			if len(requested) != len(tt.wantRequests) {
				t.Fatalf("requested pages %v, want %v", requested, tt.wantRequests)
			}
			for i := range requested {
				if requested[i] != tt.wantRequests[i] {
					t.Errorf("requested pages %v, want %v", requested, tt.wantRequests)
					break
				}
			}
		})
	}
}

func TestPager_FetchesLazily(t *testing.T) {
	var requested []int
	pager := NewPager(pagedFetch([]int{1, 2, 3, 4}, 2, true, &requested))
	ctx := context.Background()

	pager.Next(ctx)
	pager.Next(ctx)
	if len(requested) != 1 {
		t.Fatalf("after consuming page 1, requested %v, want only page 1", requested)
	}

	pager.Next(ctx)
	if len(requested) != 2 || pager.Page() != 2 {
		t.Fatalf("requested %v (page %d), want page 2 fetched on demand", requested, pager.Page())
	}
}

func TestPager_SurfacesFetchError(t *testing.T) {
	boom := errors.New("boom")
	pager := NewPager(func(ctx context.Context, page int) (Page[int], error) {
		if page == 2 {
			return Page[int]{}, boom
		}
		return Page[int]{Items: []int{page}}, nil
	})

	count := 0
	for pager.Next(context.Background()) {
		count++
	}

	if count != 1 {
		t.Errorf("yielded %d items before the error, want 1", count)
	}
	if !errors.Is(pager.Err(), boom) {
		t.Fatalf("Err() = %v, want wrapped boom", pager.Err())
	}
	if pager.Next(context.Background()) {
		t.Error("Next() after an error should keep returning false")
	}
}

func TestPager_StopsWhenContextCancelled(t *testing.T) {
	var requested []int
	pager := NewPager(pagedFetch([]int{1, 2, 3, 4}, 2, true, &requested))

	ctx, cancel := context.WithCancel(context.Background())
	pager.Next(ctx)
	pager.Next(ctx)
	cancel()

	if pager.Next(ctx) {
		t.Fatal("Next() should stop at the page boundary once cancelled")
	}
	if !errors.Is(pager.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", pager.Err())
	}
	if len(requested) != 1 {
		t.Errorf("requested %v, want no fetch after cancellation", requested)
	}
}
