package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/TheDeveloper404/ConstructionIQ/internal/listing"
)

const pagerWindow = 5

// Pager describes the pagination controls of a list page.
type Pager struct {
	Page       int
	TotalPages int
	Total      int
	From       int
	To         int
	Pages      []int

	path    string
	filters url.Values
}

func newPager[T any](path string, st listing.State[T]) Pager {
	filters := url.Values{}
	for k, v := range st.Filters {
		filters.Set(k, v)
	}
	return Pager{
		Page:       st.Page,
		TotalPages: st.TotalPages,
		Total:      st.Total,
		From:       st.From(),
		To:         st.To(),
		Pages:      listing.PageNumbers(st.Page, st.TotalPages, pagerWindow),
		path:       path,
		filters:    filters,
	}
}

// Link returns the URL of page, keeping the active filters.
func (p Pager) Link(page int) string {
	q := url.Values{}
	for k, v := range p.filters {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}

func (p Pager) HasPrev() bool { return p.Page > 1 }
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// filtersFromQuery reads the named filters; empty values and "all" mean no
// filter.
func filtersFromQuery(r *http.Request, keys ...string) map[string]string {
	filters := map[string]string{}
	for _, k := range keys {
		v := strings.TrimSpace(r.URL.Query().Get(k))
		if v != "" && v != "all" {
			filters[k] = v
		}
	}
	return filters
}

// openList loads the page and filters named in the query string.
func openList[T any](ctx context.Context, r *http.Request, fetch listing.Fetcher[T], pageSize int, filterKeys ...string) (listing.State[T], error) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	l := listing.NewList(fetch, pageSize)
	defer l.Close()
	err := l.Open(ctx, filtersFromQuery(r, filterKeys...), page)
	st := l.State()
	if st.Items == nil {
		st.Items = []T{}
	}
	return st, err
}
