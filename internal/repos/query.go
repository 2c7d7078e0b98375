package repos

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is 1-based. Zero values fall back to the first page of DefaultPageSize.
type Page struct {
	Page     int
	PageSize int
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Page) offset() int { return (p.Page - 1) * p.PageSize }

// Filter narrows a query. Filters built from empty input are no-ops.
type Filter func(*gorm.DB) *gorm.DB

// Eq matches column = value, skipped when value is empty.
func Eq(column, value string) Filter {
	return func(q *gorm.DB) *gorm.DB {
		if strings.TrimSpace(value) == "" {
			return q
		}
		return q.Where(column+" = ?", value)
	}
}

// Search matches term as a substring of any of the columns.
func Search(term string, columns ...string) Filter {
	return func(q *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return q
		}
		like := "%" + strings.ToLower(term) + "%"
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			parts[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = like
		}
		return q.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

// Where applies a raw condition.
func Where(cond string, args ...any) Filter {
	return func(q *gorm.DB) *gorm.DB { return q.Where(cond, args...) }
}

func applyFilters(q *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		if f != nil {
			q = f(q)
		}
	}
	return q
}
