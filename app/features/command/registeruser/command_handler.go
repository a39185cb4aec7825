package registeruser

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// CommandHandler hashes the password and stores the user.
type CommandHandler struct {
	store     shell.RunsSessions
	hasher    shell.HashesPasswords
	publisher shell.PublishesEvents
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithPasswordHasher replaces the default SHA256Hasher.
func WithPasswordHasher(hasher shell.HashesPasswords) Option {
	return func(h *CommandHandler) {
		h.hasher = hasher
	}
}

// WithEventPublisher sets where user.registered events go. Events are dropped by default.
func WithEventPublisher(publisher shell.PublishesEvents) Option {
	return func(h *CommandHandler) {
		h.publisher = publisher
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store shell.RunsSessions, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:     store,
		hasher:    shell.SHA256Hasher{},
		publisher: shell.NoopPublisher{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the id of the new user in HandlerResult.CreatedID.
// Emails are not unique; registering the same email twice creates two users.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := core.ValidateNewUser(command.FirstName, command.LastName, command.Email, command.Password); err != nil {
		return shell.HandlerResult{}, err
	}

	passHash, err := h.hasher.Hash(command.Password)
	if err != nil {
		return shell.HandlerResult{}, err
	}

	var userID int64

	err = h.store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		userID, err = session.InsertUser(ctx, sqlengine.NewUser{
			FirstName: command.FirstName,
			LastName:  command.LastName,
			Email:     command.Email,
			PassHash:  passHash,
			CreatedAt: command.RegisteredAt,
		})

		return err
	})
	if err != nil {
		return shell.HandlerResult{}, err
	}

	h.publisher.Publish(ctx, shell.CirculationEvent{
		RoutingKey: shell.RKUserRegistered,
		UserID:     userID,
		OccurredAt: command.RegisteredAt,
	})

	return shell.NewCreatedResult(userID), nil
}
