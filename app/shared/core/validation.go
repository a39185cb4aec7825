package core

import (
	"strconv"
	"strings"

	"github.com/AntonStoeckl/library-circulation-api/library"
)

const (
	MsgMissingBookFields  = "Missing required fields: title, isbn, nr_copies, or author."
	MsgNegativeCopies     = "nr_copies must not be negative."
	MsgMissingCirculation = "Missing required fields: user_id or titles."
	MsgBlankTitle         = "Titles must not be blank."
	MsgMissingUserFields  = "Missing required fields: first, last, email, or pass."
	MsgInvalidID          = "The id must be a positive integer."
	MsgUnknownBookField   = "Unknown book field."
)

// ValidationError is a rejected request. Description is safe to show to clients.
type ValidationError struct {
	Description string
	cause       error
}

func (e *ValidationError) Error() string {
	return e.cause.Error() + ": " + e.Description
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// MissingFields builds a ValidationError classified as library.ErrMissingRequiredFields.
func MissingFields(description string) error {
	return &ValidationError{Description: description, cause: library.ErrMissingRequiredFields}
}

// InvalidValue builds a ValidationError classified as library.ErrInvalidFieldValue.
func InvalidValue(description string) error {
	return &ValidationError{Description: description, cause: library.ErrInvalidFieldValue}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateCirculation checks a borrow or return request.
func ValidateCirculation(userID int64, titles []string) error {
	if userID <= 0 || len(titles) == 0 {
		return MissingFields(MsgMissingCirculation)
	}

	for _, title := range titles {
		if blank(title) {
			return MissingFields(MsgBlankTitle)
		}
	}

	return nil
}

// ValidateNewBook checks an add-book request. Zero copies count as missing.
func ValidateNewBook(title, isbn string, nrCopies int64, authorFirst, authorLast string) error {
	if nrCopies < 0 {
		return InvalidValue(MsgNegativeCopies)
	}

	if blank(title) || blank(isbn) || nrCopies == 0 || blank(authorFirst) || blank(authorLast) {
		return MissingFields(MsgMissingBookFields)
	}

	return nil
}

// ValidateNewUser checks a user registration request.
func ValidateNewUser(first, last, email, pass string) error {
	if blank(first) || blank(last) || blank(email) || pass == "" {
		return MissingFields(MsgMissingUserFields)
	}

	return nil
}

// ParseID parses a path or body id. Anything but a positive integer is an invalid value.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, InvalidValue(MsgInvalidID)
	}

	return id, nil
}
