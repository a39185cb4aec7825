package library

import (
	"fmt"
	"time"
)

// BookField is a column books can be looked up by.
type BookField string

const (
	BookFieldID             BookField = "id"
	BookFieldTitle          BookField = "title"
	BookFieldAuthorLastName BookField = "author_last_name"
)

// ParseBookField validates a raw field name.
func ParseBookField(raw string) (BookField, error) {
	switch field := BookField(raw); field {
	case BookFieldID, BookFieldTitle, BookFieldAuthorLastName:
		return field, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBookField, raw)
	}
}

// Book is one catalog entry joined with one of its authors.
// A book with several authors appears once per author.
type Book struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ISBN        string  `json:"isbn"`
	TotalCopies int64   `json:"total_copies"`
	Author      *string `json:"author"`
}

// AvailableBook is a catalog entry together with its inventory counter.
type AvailableBook struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	TotalCopies     int64  `json:"total_copies"`
	AvailableCopies int64  `json:"available_copies"`
}

// BorrowedBook is a book currently held by a user.
type BorrowedBook struct {
	Book
	BorrowedAt time.Time `json:"borrowed_at"`
	DueDate    time.Time `json:"due_date"`
}

// User is a registered library user.
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Inventory holds both copy counters of one book.
type Inventory struct {
	BookID          int64
	TotalCopies     int64
	AvailableCopies int64
	HasInventoryRow bool
}

// AuthorDisplayName renders an author as "<last> <first>".
// Returns nil when the book has no linked author.
func AuthorDisplayName(firstName, lastName *string) *string {
	if firstName == nil && lastName == nil {
		return nil
	}

	var first, last string
	if firstName != nil {
		first = *firstName
	}

	if lastName != nil {
		last = *lastName
	}

	name := last + " " + first

	return &name
}
