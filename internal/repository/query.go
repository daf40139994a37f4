package repository

import (
	"errors"
	"log/slog"
)

const (
	CategoryField           QueryField = "category"
	BrandField              QueryField = "brand"
	AvailabilityStatusField QueryField = "availabilityStatus"
)

// FilterFields lists the columns FindAll may filter on, in the order they are applied.
var FilterFields = []QueryField{CategoryField, BrandField, AvailabilityStatusField}

// Query narrows a product listing. A zero Limit returns every matching row.
type Query struct {
	Values map[QueryField]string

	Limit int

	Paginator *Paginator
}

type QueryField string

func NewQuery() *Query {
	return &Query{
		Values: map[QueryField]string{},
	}
}

// With adds an equality filter. Empty values are ignored.
func (q *Query) With(field QueryField, val string) *Query {
	if val != "" {
		q.Values[field] = val
	}
	return q
}

// Paginated reports whether the query asks for a single page.
func (q *Query) Paginated() bool {
	return q.Limit > 0
}

// ApplyPagination enables keyset pagination when a limit or token is given.
func (q *Query) ApplyPagination(limit int32, token string) error {
	if limit <= 0 && token == "" {
		return nil
	}

	queryLimit := DefaultPaginationLimit
	if limit > 0 {
		queryLimit = min(maxPaginationLimit, int(limit))
	}
	q.Limit = queryLimit

	if token == "" {
		return nil
	}

	paginator, err := DecodePageToken(token)
	if err != nil {
		slog.Error("failed to decode page token", slog.Any("err", err), slog.String("token", token))
		return errors.New("invalid page token")
	}
	q.Paginator = paginator
	return nil
}
