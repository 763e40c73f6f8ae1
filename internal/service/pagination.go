package service

import (
	"strconv"
	"strings"
)

// Page describes one page of a paginated listing. Numbers are 1-based.
type Page struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParsePageNumber reads a ?page= value. Anything non-numeric or below 1 is page 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NewPage resolves number against total. An empty listing still has one page,
// and a number past the end lands on the last page.
func NewPage(number int, total int64, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Page{
		Number:      number,
		NumPages:    numPages,
		PerPage:     perPage,
		Total:       total,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

// Offset is the number of rows before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}
