package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageNumber(t *testing.T) {
	t.Parallel()
	cases := map[string]int{"": 1, "abc": 1, "0": 1, "-3": 1, "1": 1, " 4 ": 4}
	for raw, want := range cases {
		assert.Equal(t, want, ParsePageNumber(raw), "raw=%q", raw)
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		number int
		total  int64
		per    int
		want   Page
	}{
		{"first of many", 1, 23, 5, Page{Number: 1, NumPages: 5, PerPage: 5, Total: 23, HasNext: true}},
		{"last partial", 5, 23, 5, Page{Number: 5, NumPages: 5, PerPage: 5, Total: 23, HasPrevious: true}},
		{"past the end clamps", 99, 23, 5, Page{Number: 5, NumPages: 5, PerPage: 5, Total: 23, HasPrevious: true}},
		{"empty listing", 3, 0, 5, Page{Number: 1, NumPages: 1, PerPage: 5, Total: 0}},
		{"exact multiple", 2, 10, 5, Page{Number: 2, NumPages: 2, PerPage: 5, Total: 10, HasPrevious: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.number, tt.total, tt.per))
		})
	}

	assert.Equal(t, 20, NewPage(5, 23, 5).Offset())
	assert.Equal(t, 0, NewPage(1, 0, 5).Offset())
}
