package httpapi

import (
	"fmt"
	"net/http"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/availablebooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/registeredusers"
)

func (s *Server) addUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	command := registeruser.BuildCommand(req.First, req.Last, req.Email, req.Pass, s.now())

	result, err := s.handlers.RegisterUser.Handle(r.Context(), command)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("User with ID %d created successfully", result.CreatedID)})
}

func (s *Server) registeredUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.handlers.RegisteredUsers.Handle(r.Context(), registeredusers.BuildQuery())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, users)
}

func (s *Server) availableBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.handlers.AvailableBooks.Handle(r.Context(), availablebooks.BuildQuery())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, books)
}
