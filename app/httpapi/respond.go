package httpapi

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
	"github.com/AntonStoeckl/library-circulation-api/library"
)

const (
	contentTypeJSON = "application/json"

	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeServerError    = "server_error"

	DescriptionNotFound       = "No book found for the given title."
	DescriptionDatabase       = "Database query failed."
	DescriptionPoolExhaustion = "No database connection available."
	DescriptionInternal       = "Internal server error."
	DescriptionInvalidRequest = "The request is invalid."

	MsgBooksBorrowed  = "Books borrowed successfully"
	MsgBooksReturned  = "Books returned successfully"
	StatusOK          = "OK"
	StatusUnavailable = "UNAVAILABLE"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// MessageResponse is the body of commands that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse is the body of POST /books.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// StatusResponse is the body of the health endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// MapError turns any failure into its HTTP status and client-safe body.
func MapError(err error) (int, ErrorResponse) {
	switch library.KindOf(err) {
	case library.KindValidation:
		return http.StatusBadRequest, ErrorResponse{Error: ErrorCodeInvalidRequest, ErrorDescription: validationDescription(err)}
	case library.KindNotFound:
		return http.StatusInternalServerError, ErrorResponse{Error: ErrorCodeNotFound, ErrorDescription: DescriptionNotFound}
	case library.KindPoolExhaustion:
		return http.StatusInternalServerError, ErrorResponse{Error: ErrorCodeServerError, ErrorDescription: DescriptionPoolExhaustion}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: ErrorCodeServerError, ErrorDescription: DescriptionDatabase}
	}
}

func validationDescription(err error) string {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Description
	}

	if errors.Is(err, library.ErrUnknownBookField) {
		return core.MsgUnknownBookField
	}

	return DescriptionInvalidRequest
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := MapError(err)

	s.logWarnOrError(r, status, logMsgRequestFailed,
		logAttrRequestID, RequestIDFrom(r.Context()),
		logAttrPath, r.URL.Path,
		logAttrError, err.Error(),
		logAttrErrorKind, string(library.KindOf(err)),
	)

	writeJSON(w, status, body)
}
