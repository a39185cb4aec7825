package shell

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// RunsTransactions is the part of sqlengine.Store the command handlers need.
type RunsTransactions interface {
	WithinTransaction(ctx context.Context, fn sqlengine.SessionFunc) error
}

// RunsSessions is the part of sqlengine.Store the query handlers need.
type RunsSessions interface {
	WithSession(ctx context.Context, fn sqlengine.SessionFunc) error
}

// Command represents the contract for all command types.
// The CommandType method names the use case in logs, metrics and spans.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Implementations should not care about observability; they are wrapped by observable.CommandWrapper.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// CoreQueryHandler defines the contract for components that answer queries.
// The generic parameters Q and R tie every query to its result type.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
