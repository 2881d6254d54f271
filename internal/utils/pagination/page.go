package pagination

import (
	"math"
	"strconv"
)

// DefaultPageSize is used when a caller passes a non-positive size.
const DefaultPageSize = 10

// Page describes one window of an ordered result set.
// Number is 1-based; a Number past the end yields an empty window, not an error.
type Page struct {
	Number int
	Size   int
	Total  int64
}

// New normalizes the page number and size. Numbers too large for their
// offset to fit in an int are clamped to the last representable page, which
// is always past the end of any real result set.
func New(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if maxNumber := max(math.MaxInt/size-1, 1); number > maxNumber {
		number = maxNumber
	}
	return Page{Number: number, Size: size}
}

// Parse reads a page number from a path/query value. Empty means page 1.
func Parse(raw string, size int) (Page, error) {
	if raw == "" {
		return New(1, size), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Page{}, strconv.ErrSyntax
	}
	return New(n, size), nil
}

// Offset is the number of rows to skip.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Limit is the number of rows to fetch.
func (p Page) Limit() int { return p.Size }

// Pages is the total number of pages, at least 1.
func (p Page) Pages() int {
	if p.Total <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Pages() }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }
