package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileSearchCond(t *testing.T) {
	cond, args := profileSearchCond("name", ProfileSearchQuery{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)

	cond, args = profileSearchCond("name", ProfileSearchQuery{Name: "The Vines"})
	assert.Equal(t, "LOWER(name) LIKE ?", cond)
	assert.Equal(t, []any{"%the vines%"}, args)

	cond, args = profileSearchCond("venue_name", ProfileSearchQuery{Name: "Hall", City: "Denver", State: "CO"})
	assert.Equal(t, "LOWER(venue_name) LIKE ? AND LOWER(city) = ? AND LOWER(state) = ?", cond)
	assert.Equal(t, []any{"%hall%", "denver", "co"}, args)
}

func TestProfileSearchQueryNormalize(t *testing.T) {
	q := ProfileSearchQuery{Page: 0, PageSize: 0}
	q.normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)

	q = ProfileSearchQuery{Page: -3, PageSize: 9999}
	q.normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)

	q = ProfileSearchQuery{Page: 4, PageSize: 50}
	q.normalize()
	assert.Equal(t, 4, q.Page)
	assert.Equal(t, 50, q.PageSize)
}
