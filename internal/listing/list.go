// Package listing provides paginated list and detail view-models over the
// ConstructIQ API. Only the most recently issued fetch may update state.
package listing

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

// DefaultPageSize is the page size of entity lists.
const DefaultPageSize = 10

// ErrSuperseded is returned by a fetch whose result was discarded because a
// newer fetch was issued after it. It is never shown to the user.
var ErrSuperseded = errors.New("superseded by a newer request")

// Query selects one page of a collection.
type Query = api.ListParams

// Fetcher loads one page of a collection.
type Fetcher[T any] func(ctx context.Context, q Query) (*api.Page[T], error)

// State is a snapshot of a list.
type State[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	Filters    map[string]string
	Loading    bool
	// Skeleton is the number of placeholder rows to draw while loading.
	Skeleton int
}

// From returns the 1-based index of the first row shown, 0 when empty.
func (s State[T]) From() int {
	from, _ := Range(s.Page, s.PageSize, s.Total)
	return from
}

// To returns the 1-based index of the last row shown.
func (s State[T]) To() int {
	_, to := Range(s.Page, s.PageSize, s.Total)
	return to
}

// List is a paginated, filterable view of a collection.
type List[T any] struct {
	fetch Fetcher[T]

	mu         sync.Mutex
	query      Query
	items      []T
	page       int
	shown      map[string]string // filters of items
	total      int
	totalPages int
	loaded     bool
	loading    bool
	skeleton   int
	token      uint64
	cancel     context.CancelFunc
}

// NewList creates a list starting at page 1 with no filters.
func NewList[T any](fetch Fetcher[T], pageSize int) *List[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &List[T]{
		fetch: fetch,
		query: Query{Page: 1, PageSize: pageSize, Filters: map[string]string{}},
		page:  1,
		shown: map[string]string{},
	}
}

// Load fetches the current page with the active filters.
func (l *List[T]) Load(ctx context.Context) error {
	return l.run(ctx, func(q *Query) {})
}

// SetFilter sets a filter and fetches page 1.
func (l *List[T]) SetFilter(ctx context.Context, key, value string) error {
	return l.run(ctx, func(q *Query) {
		q.Filters[key] = value
		q.Page = 1
	})
}

// SetFilters replaces every filter and fetches page 1.
func (l *List[T]) SetFilters(ctx context.Context, filters map[string]string) error {
	return l.run(ctx, func(q *Query) {
		q.Filters = maps.Clone(filters)
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Page = 1
	})
}

// GoTo fetches the given page keeping the active filters.
func (l *List[T]) GoTo(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	return l.run(ctx, func(q *Query) {
		q.Page = page
	})
}

// Open replaces the filters and fetches the given page. The web client uses
// it to restore a list from the query string in one request.
func (l *List[T]) Open(ctx context.Context, filters map[string]string, page int) error {
	if page < 1 {
		page = 1
	}
	return l.run(ctx, func(q *Query) {
		q.Filters = maps.Clone(filters)
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Page = page
	})
}

// Close cancels any in-flight fetch.
func (l *List[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.token++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
}

// State returns a snapshot of the list.
func (l *List[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State[T]{
		Items:      l.items,
		Page:       l.page,
		PageSize:   l.query.PageSize,
		Total:      l.total,
		TotalPages: l.totalPages,
		Filters:    maps.Clone(l.query.Filters),
		Loading:    l.loading,
		Skeleton:   l.skeleton,
	}
}

func (l *List[T]) run(ctx context.Context, mutate func(q *Query)) error {
	l.mu.Lock()
	mutate(&l.query)
	q := Query{Page: l.query.Page, PageSize: l.query.PageSize, Filters: maps.Clone(l.query.Filters)}

	l.token++
	token := l.token
	if l.cancel != nil {
		l.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.loading = true
	l.skeleton = q.PageSize
	if l.loaded && len(l.items) > 0 {
		l.skeleton = len(l.items)
	}
	l.mu.Unlock()

	result, err := l.fetch(fetchCtx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.token {
		return ErrSuperseded
	}
	cancel()
	l.cancel = nil
	l.loading = false

	if err != nil {
		// keep the previous page and filters; the request was never shown
		l.query.Page = l.page
		l.query.Filters = maps.Clone(l.shown)
		return err
	}

	l.items = result.Items
	l.shown = q.Filters
	l.page = q.Page
	if result.Page > 0 {
		l.page = result.Page
	}
	l.query.Page = l.page
	l.total = result.Total
	l.totalPages = result.TotalPages
	l.loaded = true
	return nil
}

// Range returns the 1-based bounds of the rows shown on page p of a
// collection of total rows with page size s.
func Range(p, s, total int) (from, to int) {
	if total <= 0 || p < 1 || s < 1 {
		return 0, 0
	}
	from = (p-1)*s + 1
	to = min(p*s, total)
	if from > total {
		return 0, 0
	}
	return from, to
}

// PageNumbers returns up to window page numbers centred on current.
func PageNumbers(current, totalPages, window int) []int {
	if totalPages <= 0 || window <= 0 {
		return nil
	}
	start := max(current-window/2, 1)
	end := min(start+window-1, totalPages)
	start = max(end-window+1, 1)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
