package borrowedbooks

import (
	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
)

const (
	queryType = "BorrowedBooks"
)

// Query asks for the books a user currently holds.
type Query struct {
	UserID int64
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery parses the raw user id.
func BuildQuery(rawUserID string) (Query, error) {
	userID, err := core.ParseID(rawUserID)
	if err != nil {
		return Query{}, err
	}

	return Query{UserID: userID}, nil
}
