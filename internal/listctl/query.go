package listctl

import (
	"slices"
	"strings"
)

// ListQuery is the request for one page. Values are immutable; QueryState
// hands out copies.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

// Offset is the zero-based index of the first record on the page.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// PageSizePolicy lists the selectable page sizes. An empty Allowed list
// accepts any positive size.
type PageSizePolicy struct {
	Default int
	Allowed []int
}

// DefaultPageSizes is the selector offered on every screen.
var DefaultPageSizes = PageSizePolicy{Default: 10, Allowed: []int{5, 10, 20, 50}}

// Allows reports whether n may be selected.
func (p PageSizePolicy) Allows(n int) bool {
	if n < 1 {
		return false
	}
	if len(p.Allowed) == 0 {
		return true
	}
	return slices.Contains(p.Allowed, n)
}

func (p PageSizePolicy) defaultSize() int {
	if p.Default > 0 {
		return p.Default
	}
	if len(p.Allowed) > 0 {
		return p.Allowed[0]
	}
	return DefaultPageSizes.Default
}

// QueryState owns the current ListQuery. Each setter returns true when the
// query changed; every change bumps Version, which callers use as the signal
// to fetch. QueryState is not safe for concurrent use on its own.
type QueryState struct {
	policy    PageSizePolicy
	current   ListQuery
	pageCount int
	version   uint64
}

// NewQueryState starts at page 1 with the policy's default size and no search.
func NewQueryState(policy PageSizePolicy) *QueryState {
	return &QueryState{
		policy:    policy,
		current:   ListQuery{Page: 1, PageSize: policy.defaultSize()},
		pageCount: 1,
	}
}

// Current returns a copy of the query.
func (s *QueryState) Current() ListQuery { return s.current }

// Version increases on every change made through a setter.
func (s *QueryState) Version() uint64 { return s.version }

// PageCount is the page count from the last adopted envelope.
func (s *QueryState) PageCount() int { return s.pageCount }

// Policy returns the page size policy.
func (s *QueryState) Policy() PageSizePolicy { return s.policy }

// SetPage moves to page n. Pages outside 1..PageCount are ignored.
func (s *QueryState) SetPage(n int) bool {
	if n < 1 || n > s.pageCount || n == s.current.Page {
		return false
	}
	s.current.Page = n
	s.version++
	return true
}

// SetPageSize switches to size n and always returns to page 1. Sizes the
// policy does not allow are ignored.
func (s *QueryState) SetPageSize(n int) bool {
	if !s.policy.Allows(n) {
		return false
	}
	if n == s.current.PageSize && s.current.Page == 1 {
		return false
	}
	s.current.PageSize = n
	s.current.Page = 1
	s.version++
	return true
}

// SetSearch replaces the search term, trimmed, and returns to page 1. A term
// equal to the current one changes nothing.
func (s *QueryState) SetSearch(term string) bool {
	term = strings.TrimSpace(term)
	if term == s.current.Search {
		return false
	}
	s.current.Search = term
	s.current.Page = 1
	s.version++
	return true
}

// Adopt takes the page and page size the server actually served, and derives
// the page count from its total. The data on hand already reflects these
// values, so Version is left alone.
func (s *QueryState) Adopt(page, pageSize, totalCount int) {
	if page > 0 {
		s.current.Page = page
	}
	if pageSize > 0 {
		s.current.PageSize = pageSize
	}
	s.pageCount = PageCount(totalCount, s.current.PageSize)
}

// clampPage moves to the last page when the adopted page lies past it.
func (s *QueryState) clampPage() bool {
	if s.current.Page <= s.pageCount {
		return false
	}
	s.current.Page = s.pageCount
	s.version++
	return true
}
