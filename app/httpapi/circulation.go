package httpapi

import (
	"net/http"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/borrowbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/returnbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/borrowedbooks"
)

func (s *Server) borrowBooks(w http.ResponseWriter, r *http.Request) {
	var req circulationRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	command := borrowbooks.BuildCommand(int64(req.UserID), req.Titles, s.now())

	if _, err := s.handlers.BorrowBooks.Handle(r.Context(), command); err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgBooksBorrowed})
}

func (s *Server) returnBooks(w http.ResponseWriter, r *http.Request) {
	var req circulationRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	command := returnbooks.BuildCommand(int64(req.UserID), req.Titles, s.now())

	if _, err := s.handlers.ReturnBooks.Handle(r.Context(), command); err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgBooksReturned})
}

// myBooks answers 201 on success, which existing clients depend on.
func (s *Server) myBooks(w http.ResponseWriter, r *http.Request) {
	query, err := borrowedbooks.BuildQuery(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	books, err := s.handlers.BorrowedBooks.Handle(r.Context(), query)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, books)
}
