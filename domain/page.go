package domain

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageRequest selects one page of a listing. SortField is an api field name
// such as "createdAt"; each listing decides which fields it accepts.
type PageRequest struct {
	Page          int
	Limit         int
	SortField     string
	SortDirection string
}

// Page is one page of composed views together with the paging metadata.
// Items is never nil, so that an empty page encodes as [].
type Page[V any] struct {
	Items       []V   `json:"items"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}
