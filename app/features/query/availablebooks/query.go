package availablebooks

const (
	queryType = "AvailableBooks"
)

// Query asks for every book with its available copies.
type Query struct{}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}
