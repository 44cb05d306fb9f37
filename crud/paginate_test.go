package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidTube/domain"
	"vidTube/errs"
)

func TestNewPageQuery(t *testing.T) {
	tests := []struct {
		name   string
		req    domain.PageRequest
		column string
		desc   bool
		limit  int
		code   string
	}{
		{name: "defaults", req: domain.PageRequest{Page: 1, Limit: 10}, column: "created_at", desc: true, limit: 10},
		{name: "ascending views", req: domain.PageRequest{Page: 2, Limit: 5, SortField: "views", SortDirection: "ASC"}, column: "views", desc: false, limit: 5},
		{name: "explicit desc", req: domain.PageRequest{Page: 1, Limit: 5, SortField: "duration", SortDirection: "desc"}, column: "duration", desc: true, limit: 5},
		{name: "limit capped", req: domain.PageRequest{Page: 1, Limit: 1000}, column: "created_at", desc: true, limit: MaxPageLimit},
		{name: "page zero", req: domain.PageRequest{Page: 0, Limit: 10}, code: errs.EINVALID},
		{name: "negative limit", req: domain.PageRequest{Page: 1, Limit: -1}, code: errs.EINVALID},
		{name: "unknown field", req: domain.PageRequest{Page: 1, Limit: 10, SortField: "likes"}, code: errs.EINVALID},
		{name: "unknown direction", req: domain.PageRequest{Page: 1, Limit: 10, SortDirection: "up"}, code: errs.EINVALID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pq, err := newPageQuery(tt.req, "videos", videoSortColumns)
			if tt.code != "" {
				requireCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.column, pq.column)
			assert.Equal(t, tt.desc, pq.desc)
			assert.Equal(t, tt.limit, pq.limit)
			assert.Equal(t, "videos", pq.table)
		})
	}
}

func TestNewPageQueryCreatedAtOnly(t *testing.T) {
	_, err := newPageQuery(domain.PageRequest{Page: 1, Limit: 5, SortField: "views"}, "comments", createdAtOnly)
	requireCode(t, err, errs.EINVALID)
}

func TestPageOffset(t *testing.T) {
	pq, err := newPageQuery(domain.PageRequest{Page: 3, Limit: 7}, "videos", videoSortColumns)
	require.NoError(t, err)
	assert.Equal(t, 14, pq.offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 3, totalPages(25, 10))
}
