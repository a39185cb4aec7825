package booksbyfield

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
	"github.com/AntonStoeckl/library-circulation-api/library"
)

const (
	queryType = "BooksByField"
)

// Query asks for the books whose Field equals Value.
type Query struct {
	Field library.BookField
	Value any
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery validates a raw field name and value. Ids must be positive integers;
// titles and author last names are matched exactly.
func BuildQuery(field, value string) (Query, error) {
	bookField, err := library.ParseBookField(field)
	if err != nil {
		return Query{}, err
	}

	if bookField == library.BookFieldID {
		id, err := core.ParseID(value)
		if err != nil {
			return Query{}, err
		}

		return Query{Field: bookField, Value: id}, nil
	}

	if strings.TrimSpace(value) == "" {
		return Query{}, core.MissingFields("Missing required field: " + string(bookField) + ".")
	}

	return Query{Field: bookField, Value: value}, nil
}
