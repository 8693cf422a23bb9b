package pagination

import (
	"gorm.io/gorm"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Request holds limit/offset parameters parsed from query strings.
type Request struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Defaults fills in default values and clamps out-of-range input.
func (r *Request) Defaults() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// Page wraps one window of a list together with the total row count.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// NewPage creates a Page from the given items and total count.
func NewPage[T any](items []T, req Request, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:  items,
		Limit:  req.Limit,
		Offset: req.Offset,
		Total:  total,
	}
}

// Meta returns the paging metadata without the items.
func (p Page[T]) Meta() map[string]interface{} {
	return map[string]interface{}{
		"limit":  p.Limit,
		"offset": p.Offset,
		"total":  p.Total,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given request.
func Paginate(req Request) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset).Limit(req.Limit)
	}
}
