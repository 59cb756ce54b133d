package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

// pagedFetcher serves a fixed collection of n rows honoring page and page size.
func pagedFetcher(n int, calls *[]Query) Fetcher[int] {
	var mu sync.Mutex
	return func(ctx context.Context, q Query) (*api.Page[int], error) {
		mu.Lock()
		*calls = append(*calls, q)
		mu.Unlock()

		start := (q.Page - 1) * q.PageSize
		end := min(start+q.PageSize, n)
		items := []int{}
		for i := start; i < end; i++ {
			items = append(items, i+1)
		}
		totalPages := (n + q.PageSize - 1) / q.PageSize
		return &api.Page[int]{Items: items, Page: q.Page, PageSize: q.PageSize, Total: n, TotalPages: totalPages}, nil
	}
}

func TestList_FilterResetsToFirstPage(t *testing.T) {
	var calls []Query
	l := NewList(pagedFetcher(35, &calls), 10)
	ctx := context.Background()

	if err := l.GoTo(ctx, 3); err != nil {
		t.Fatalf("GoTo() error = %v", err)
	}
	if got := l.State().Page; got != 3 {
		t.Fatalf("Page = %d, want 3", got)
	}

	if err := l.SetFilter(ctx, "status", "active"); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}

	last := calls[len(calls)-1]
	if last.Page != 1 {
		t.Errorf("fetch page = %d, want 1", last.Page)
	}
	if last.Filters["status"] != "active" {
		t.Errorf("fetch filters = %v, want status=active", last.Filters)
	}
	if got := l.State().Page; got != 1 {
		t.Errorf("Page = %d, want 1", got)
	}
}

func TestList_GoToKeepsFilters(t *testing.T) {
	var calls []Query
	l := NewList(pagedFetcher(35, &calls), 10)
	ctx := context.Background()

	l.SetFilter(ctx, "search", "ciment")
	l.GoTo(ctx, 2)

	last := calls[len(calls)-1]
	if last.Page != 2 || last.Filters["search"] != "ciment" {
		t.Errorf("fetch = %+v, want page 2 with search=ciment", last)
	}
}

func TestList_Open(t *testing.T) {
	var calls []Query
	l := NewList(pagedFetcher(35, &calls), 10)

	if err := l.Open(context.Background(), map[string]string{"status": "draft"}, 4); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("fetches = %d, want 1", len(calls))
	}
	st := l.State()
	if st.Page != 4 || len(st.Items) != 5 || st.Filters["status"] != "draft" {
		t.Errorf("State() = page %d, %d items, filters %v", st.Page, len(st.Items), st.Filters)
	}
}

func TestList_RowsShownPerPage(t *testing.T) {
	tests := []struct {
		total    int
		page     int
		wantRows int
		wantFrom int
		wantTo   int
	}{
		{35, 1, 10, 1, 10},
		{35, 4, 5, 31, 35},
		{10, 1, 10, 1, 10},
		{0, 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d page=%d", tt.total, tt.page), func(t *testing.T) {
			var calls []Query
			l := NewList(pagedFetcher(tt.total, &calls), 10)
			if err := l.GoTo(context.Background(), tt.page); err != nil {
				t.Fatalf("GoTo() error = %v", err)
			}
			s := l.State()
			if len(s.Items) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(s.Items), tt.wantRows)
			}
			if s.From() != tt.wantFrom || s.To() != tt.wantTo {
				t.Errorf("range = %d-%d, want %d-%d", s.From(), s.To(), tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestList_FailureKeepsPreviousPage(t *testing.T) {
	fail := false
	var calls []Query
	ok := pagedFetcher(25, &calls)
	l := NewList(func(ctx context.Context, q Query) (*api.Page[int], error) {
		if fail {
			return nil, errors.New("boom")
		}
		return ok(ctx, q)
	}, 10)
	ctx := context.Background()

	l.GoTo(ctx, 2)
	fail = true
	if err := l.GoTo(ctx, 3); err == nil {
		t.Fatal("expected error")
	}

	s := l.State()
	if s.Page != 2 || len(s.Items) != 10 || s.Total != 25 {
		t.Errorf("state = page %d, %d items, total %d; want page 2, 10 items, total 25", s.Page, len(s.Items), s.Total)
	}
	if s.Loading {
		t.Error("expected loading to end after failure")
	}
}

func TestList_FailureKeepsPreviousFilters(t *testing.T) {
	fail := false
	var calls []Query
	ok := pagedFetcher(25, &calls)
	l := NewList(func(ctx context.Context, q Query) (*api.Page[int], error) {
		if fail {
			return nil, errors.New("boom")
		}
		return ok(ctx, q)
	}, 10)
	ctx := context.Background()

	l.SetFilter(ctx, "status", "sent")
	l.GoTo(ctx, 2)
	fail = true
	if err := l.SetFilter(ctx, "status", "draft"); err == nil {
		t.Fatal("expected error")
	}

	s := l.State()
	if s.Page != 2 || s.Filters["status"] != "sent" {
		t.Errorf("state = page %d, status %q; want page 2, status sent", s.Page, s.Filters["status"])
	}

	// The next fetch must not carry the failed filter.
	fail = false
	if err := l.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if last := calls[len(calls)-1]; last.Filters["status"] != "sent" || last.Page != 2 {
		t.Errorf("reload query = page %d, status %q; want page 2, status sent", last.Page, last.Filters["status"])
	}
}

func TestList_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	fetch := func(ctx context.Context, q Query) (*api.Page[int], error) {
		if q.Filters["status"] == "A" {
			close(started)
			<-release
			// resolve regardless of cancellation to mimic a late response
			return &api.Page[int]{Items: []int{1, 1, 1}, Page: 1, Total: 3, TotalPages: 1}, nil
		}
		return &api.Page[int]{Items: []int{2}, Page: 1, Total: 1, TotalPages: 1}, nil
	}
	l := NewList(fetch, 10)
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() {
		errA <- l.SetFilter(ctx, "status", "A")
	}()
	<-started

	if err := l.SetFilter(ctx, "status", "B"); err != nil {
		t.Fatalf("SetFilter(B) error = %v", err)
	}
	close(release)

	if err := <-errA; !errors.Is(err, ErrSuperseded) {
		t.Errorf("SetFilter(A) error = %v, want ErrSuperseded", err)
	}

	s := l.State()
	if len(s.Items) != 1 || s.Items[0] != 2 || s.Total != 1 {
		t.Errorf("state = %+v, want only B's result", s)
	}
	if s.Filters["status"] != "B" {
		t.Errorf("filter = %q, want B", s.Filters["status"])
	}
}

func TestList_SupersededFetchIsCanceled(t *testing.T) {
	canceled := make(chan struct{})
	started := make(chan struct{})

	fetch := func(ctx context.Context, q Query) (*api.Page[int], error) {
		if q.Page == 1 {
			close(started)
			<-ctx.Done()
			close(canceled)
			return nil, ctx.Err()
		}
		return &api.Page[int]{Items: []int{11}, Page: q.Page, Total: 11, TotalPages: 2}, nil
	}
	l := NewList(fetch, 10)

	done := make(chan error, 1)
	go func() { done <- l.Load(context.Background()) }()
	<-started

	if err := l.GoTo(context.Background(), 2); err != nil {
		t.Fatalf("GoTo() error = %v", err)
	}
	<-canceled
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("Load() error = %v, want ErrSuperseded", err)
	}
	if l.State().Page != 2 {
		t.Errorf("Page = %d, want 2", l.State().Page)
	}
}

func TestList_Skeleton(t *testing.T) {
	var calls []Query
	inner := pagedFetcher(13, &calls)
	var seen []int
	var l *List[int]
	l = NewList(func(ctx context.Context, q Query) (*api.Page[int], error) {
		seen = append(seen, l.State().Skeleton)
		if !l.State().Loading {
			t.Error("expected Loading during fetch")
		}
		return inner(ctx, q)
	}, 10)
	ctx := context.Background()

	l.Load(ctx)    // first load: page size
	l.GoTo(ctx, 2) // previous page had 10 rows
	l.GoTo(ctx, 1) // previous page had 3 rows

	want := []int{10, 10, 3}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("skeleton[%d] = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		p, s, total int
		from, to    int
	}{
		{1, 10, 35, 1, 10},
		{4, 10, 35, 31, 35},
		{2, 10, 20, 11, 20},
		{1, 10, 0, 0, 0},
		{5, 10, 35, 0, 0},
	}

	for _, tt := range tests {
		from, to := Range(tt.p, tt.s, tt.total)
		if from != tt.from || to != tt.to {
			t.Errorf("Range(%d, %d, %d) = %d, %d, want %d, %d", tt.p, tt.s, tt.total, from, to, tt.from, tt.to)
		}
	}
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		current, total, window int
		want                   []int
	}{
		{1, 3, 5, []int{1, 2, 3}},
		{1, 10, 5, []int{1, 2, 3, 4, 5}},
		{6, 10, 5, []int{4, 5, 6, 7, 8}},
		{10, 10, 5, []int{6, 7, 8, 9, 10}},
		{1, 0, 5, nil},
	}

	for _, tt := range tests {
		got := PageNumbers(tt.current, tt.total, tt.window)
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("PageNumbers(%d, %d, %d) = %v, want %v", tt.current, tt.total, tt.window, got, tt.want)
		}
	}
}
