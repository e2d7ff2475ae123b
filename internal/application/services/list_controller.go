package services

import (
	"fmt"
	"strings"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
)

// PageWindow is the "Showing From to To of Total entries" line.
type PageWindow struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Total int `json:"total"`
}

// String renders the window the way the table footer shows it.
func (w PageWindow) String() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", w.From, w.To, w.Total)
}

// ListController reconciles a collection snapshot with the filter and page
// state. It is not safe for concurrent use; ListManager serializes access.
type ListController[T any] struct {
	collection []T
	filter     string
	page       int
	pageSize   int
	fields     func(T) []string
}

// NewListController creates a controller. fields returns the string form of
// every field of a record and drives the free-text filter.
func NewListController[T any](pageSize int, fields func(T) []string) *ListController[T] {
	if !constants.IsAllowedPageSize(pageSize) {
		pageSize = constants.DefaultPageSize
	}
	return &ListController[T]{
		collection: []T{},
		page:       constants.FirstPage,
		pageSize:   pageSize,
		fields:     fields,
	}
}

// SetCollection replaces the snapshot wholesale and goes back to page 1.
func (lc *ListController[T]) SetCollection(records []T) {
	snapshot := make([]T, len(records))
	copy(snapshot, records)
	lc.collection = snapshot
	lc.page = constants.FirstPage
}

// SetFilter changes the query and goes back to page 1.
func (lc *ListController[T]) SetFilter(query string) {
	lc.filter = query
	lc.page = constants.FirstPage
}

// SetPageSize changes the page size and goes back to page 1. Sizes outside
// the allowed set are rejected and leave the state untouched.
func (lc *ListController[T]) SetPageSize(n int) error {
	if !constants.IsAllowedPageSize(n) {
		return apperrors.NewValidationError(constants.ParamPageSize, fmt.Sprintf("page size %d is not one of %v", n, constants.PageSizes))
	}
	lc.pageSize = n
	lc.page = constants.FirstPage
	return nil
}

// SetPage moves to page p, clamped to [1, PageCount()].
func (lc *ListController[T]) SetPage(p int) {
	lc.page = clamp(p, constants.FirstPage, lc.PageCount())
}

// Filtered returns the records matching the filter, in collection order.
func (lc *ListController[T]) Filtered() []T {
	query := strings.ToLower(lc.filter)
	if query == "" {
		out := make([]T, len(lc.collection))
		copy(out, lc.collection)
		return out
	}
	out := make([]T, 0, len(lc.collection))
	for _, rec := range lc.collection {
		if lc.matches(rec, query) {
			out = append(out, rec)
		}
	}
	return out
}

func (lc *ListController[T]) matches(rec T, query string) bool {
	for _, value := range lc.fields(rec) {
		if strings.Contains(strings.ToLower(value), query) {
			return true
		}
	}
	return false
}

// VisibleSlice returns the current page of the filtered collection.
func (lc *ListController[T]) VisibleSlice() []T {
	filtered := lc.Filtered()
	start := (lc.Page() - 1) * lc.pageSize
	if start >= len(filtered) {
		return []T{}
	}
	end := start + lc.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// PageCount is ceil(filtered / size), at least 1.
func (lc *ListController[T]) PageCount() int {
	return pageCount(len(lc.Filtered()), lc.pageSize)
}

// Page returns the current page, clamped to PageCount() when the filtered
// collection shrank underneath it.
func (lc *ListController[T]) Page() int {
	return clamp(lc.page, constants.FirstPage, lc.PageCount())
}

func (lc *ListController[T]) PageSize() int {
	return lc.pageSize
}

func (lc *ListController[T]) Filter() string {
	return lc.filter
}

// Total is the number of records matching the filter.
func (lc *ListController[T]) Total() int {
	return len(lc.Filtered())
}

// Collection returns a copy of the raw snapshot.
func (lc *ListController[T]) Collection() []T {
	out := make([]T, len(lc.collection))
	copy(out, lc.collection)
	return out
}

// Window describes the visible range within the filtered collection.
func (lc *ListController[T]) Window() PageWindow {
	total := lc.Total()
	if total == 0 {
		return PageWindow{}
	}
	from := (lc.Page()-1)*lc.pageSize + 1
	to := lc.Page() * lc.pageSize
	if to > total {
		to = total
	}
	return PageWindow{From: from, To: to, Total: total}
}

func pageCount(total, size int) int {
	if size <= 0 || total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
