package httpapi

import (
	"net/http"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/booksbyfield"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/listbooks"
	"github.com/AntonStoeckl/library-circulation-api/library"
)

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.handlers.ListBooks.Handle(r.Context(), listbooks.BuildQuery())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (s *Server) addBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	command := addbook.BuildCommand(req.Title, req.ISBN, int64(req.NrCopies), req.AuthorFirst, req.AuthorLast)

	result, err := s.handlers.AddBook.Handle(r.Context(), command)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{ID: result.CreatedID})
}

func (s *Server) booksByField(field library.BookField, pathName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := booksbyfield.BuildQuery(string(field), r.PathValue(pathName))
		if err != nil {
			s.fail(w, r, err)
			return
		}

		books, err := s.handlers.BooksByField.Handle(r.Context(), query)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, books)
	}
}
