package crud

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidTube/domain"
	"vidTube/errs"
)

// MaxPageLimit caps the number of items per page.
const MaxPageLimit = 100

// Default page sizes of the listings.
const (
	DefaultVideoLimit   = 10
	DefaultCommentLimit = 5
	DefaultLimit        = 10
)

// sortColumns maps the sort fields a listing accepts to their columns.
type sortColumns map[string]string

var (
	videoSortColumns = sortColumns{
		"createdAt": "created_at",
		"views":     "views",
		"duration":  "duration",
		"title":     "title",
	}
	createdAtOnly = sortColumns{
		"createdAt": "created_at",
	}
)

// pageQuery is a validated PageRequest.
type pageQuery struct {
	page   int
	limit  int
	table  string
	column string
	desc   bool
}

// newPageQuery validates req against the sort fields of a listing. Sorting
// defaults to createdAt descending. Columns are qualified with table, so that
// listings can join other tables.
func newPageQuery(req domain.PageRequest, table string, columns sortColumns) (*pageQuery, error) {
	if req.Page < 1 {
		return nil, errs.Errorf(errs.EINVALID, "Page must be at least 1.")
	}
	if req.Limit < 1 {
		return nil, errs.Errorf(errs.EINVALID, "Limit must be at least 1.")
	}
	pq := &pageQuery{
		page:  req.Page,
		limit: req.Limit,
		table: table,
		desc:  true,
	}
	if pq.limit > MaxPageLimit {
		pq.limit = MaxPageLimit
	}

	field := req.SortField
	if field == "" {
		field = "createdAt"
	}
	column, ok := columns[field]
	if !ok {
		return nil, errs.Errorf(errs.EINVALID, "Cannot sort by %q.", field)
	}
	pq.column = column

	switch strings.ToLower(req.SortDirection) {
	case "", domain.SortDesc:
	case domain.SortAsc:
		pq.desc = false
	default:
		return nil, errs.Errorf(errs.EINVALID, "Sort direction must be %q or %q.", domain.SortAsc, domain.SortDesc)
	}
	return pq, nil
}

func (pq *pageQuery) offset() int {
	return (pq.page - 1) * pq.limit
}

// order sorts by the requested column, with the id as tie-break so that
// pages don't overlap.
func (pq *pageQuery) order(tx *gorm.DB) *gorm.DB {
	return tx.
		Order(clause.OrderByColumn{Column: clause.Column{Table: pq.table, Name: pq.column}, Desc: pq.desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: pq.table, Name: "id"}, Desc: pq.desc})
}

// paginate counts the rows selected by scope, loads the requested window of
// them in order and composes views for only that window. scope must set the
// model of the query.
func paginate[T any, V any](
	ctx context.Context,
	db *gorm.DB,
	scope func(tx *gorm.DB) *gorm.DB,
	pq *pageQuery,
	compose func(rows []T) ([]V, error),
) (*domain.Page[V], error) {
	return withRetry(ctx, func() (*domain.Page[V], error) {
		var total int64
		if err := scope(db.WithContext(ctx)).Count(&total).Error; err != nil {
			return nil, storeErr(err, "")
		}

		page := &domain.Page[V]{
			Items:      []V{},
			Page:       pq.page,
			Limit:      pq.limit,
			TotalItems: total,
			TotalPages: totalPages(total, pq.limit),
		}
		page.HasNextPage = page.Page < page.TotalPages
		page.HasPrevPage = page.Page > 1

		// Past the last page, which also keeps offset from overflowing.
		if pq.page > page.TotalPages {
			return page, nil
		}

		var rows []T
		err := pq.order(scope(db.WithContext(ctx))).
			Offset(pq.offset()).
			Limit(pq.limit).
			Find(&rows).Error
		if err != nil {
			return nil, storeErr(err, "")
		}
		if len(rows) == 0 {
			return page, nil
		}
		items, err := compose(rows)
		if err != nil {
			return nil, err
		}
		page.Items = items
		return page, nil
	})
}

// totalPages returns ceil(total/limit).
func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
