package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/borrowbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/returnbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/availablebooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/booksbyfield"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/borrowedbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/listbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/registeredusers"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
)

// Handlers are the use cases the API exposes, usually observable wrappers around the core handlers.
type Handlers struct {
	AddBook         shell.CoreCommandHandler[addbook.Command]
	BorrowBooks     shell.CoreCommandHandler[borrowbooks.Command]
	ReturnBooks     shell.CoreCommandHandler[returnbooks.Command]
	RegisterUser    shell.CoreCommandHandler[registeruser.Command]
	ListBooks       shell.CoreQueryHandler[listbooks.Query, []library.Book]
	BooksByField    shell.CoreQueryHandler[booksbyfield.Query, []library.Book]
	AvailableBooks  shell.CoreQueryHandler[availablebooks.Query, []library.AvailableBook]
	BorrowedBooks   shell.CoreQueryHandler[borrowedbooks.Query, []library.BorrowedBook]
	RegisteredUsers shell.CoreQueryHandler[registeredusers.Query, []library.User]
}

// Pinger reports whether the database can be reached.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes HTTP requests to the use case handlers.
type Server struct {
	handlers         Handlers
	readiness        Pinger
	corsOrigins      []string
	now              func() time.Time
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a Server.
type Option func(*Server)

// WithReadinessCheck makes /healthcheck/ready ping the database.
func WithReadinessCheck(pinger Pinger) Option {
	return func(s *Server) {
		s.readiness = pinger
	}
}

// WithCORSOrigins sets the allowed origins. The default allows every origin.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithClock replaces time.Now as the source of borrow, return and registration times.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger sets the logger for access logs and failures.
func WithLogger(logger shell.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithContextualLogger sets the contextual logger for access logs and failures.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(s *Server) {
		s.contextualLogger = logger
	}
}

// NewServer creates a Server.
func NewServer(handlers Handlers, opts ...Option) *Server {
	s := &Server{
		handlers:    handlers,
		corsOrigins: []string{"*"},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the routed handler wrapped in CORS, request id, access log and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /books", s.listBooks)
	mux.HandleFunc("POST /books", s.addBook)
	mux.HandleFunc("GET /books/id/{id}", s.booksByField(library.BookFieldID, "id"))
	mux.HandleFunc("GET /books/title/{title}", s.booksByField(library.BookFieldTitle, "title"))
	mux.HandleFunc("GET /books/author/{author}", s.booksByField(library.BookFieldAuthorLastName, "author"))

	mux.HandleFunc("POST /user/borrowBooks", s.borrowBooks)
	mux.HandleFunc("POST /user/returnBooks", s.returnBooks)
	mux.HandleFunc("GET /user/myBooks/{id}", s.myBooks)

	mux.HandleFunc("POST /admin/addUser", s.addUser)
	mux.HandleFunc("GET /admin/users", s.registeredUsers)
	mux.HandleFunc("GET /admin/books", s.availableBooks)

	mux.HandleFunc("GET /healthcheck", s.healthcheck)
	mux.HandleFunc("GET /healthcheck/ready", s.ready)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
	})

	return s.withRequestID(s.withAccessLog(s.withRecovery(corsHandler.Handler(mux))))
}
