package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParamsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		params    PageParams
		wantSkip  int
		wantLimit int
	}{
		{"zero value falls back to default size", PageParams{}, 0, defaultPageSize},
		{"first page", PageParams{Page: 1, PageSize: 10}, 0, 10},
		{"second page of five", PageParams{Page: 2, PageSize: 5}, 5, 5},
		{"deep page", PageParams{Page: 7, PageSize: 20}, 120, 20},
		{"negative page clamps to first", PageParams{Page: -3, PageSize: 10}, 0, 10},
		{"negative size falls back", PageParams{Page: 2}, defaultPageSize, defaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit := tt.params.normalize(defaultPageSize)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestHasNext(t *testing.T) {
	// 12 matching documents paged five at a time: pages one and two
	// report a next page, page three does not.
	assert.True(t, hasNext(12, 0, 5))
	assert.True(t, hasNext(12, 5, 5))
	assert.False(t, hasNext(12, 10, 2))

	assert.False(t, hasNext(0, 0, 0))
	assert.False(t, hasNext(5, 0, 5))
}

func TestContainsPatternQuotesRegexSyntax(t *testing.T) {
	p := containsPattern("c++ (and more)")
	assert.Equal(t, `c\+\+ \(and more\)`, p.Pattern)
	assert.Equal(t, "i", p.Options)
}

func TestExactNamePattern(t *testing.T) {
	p := exactNamePattern("Go")
	assert.Equal(t, "^Go$", p.Pattern)
	assert.Equal(t, "i", p.Options)
}
