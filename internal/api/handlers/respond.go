package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/api/dto"
	"github.com/hugh/go-collab/internal/auth"
	"github.com/hugh/go-collab/internal/membership"
	"github.com/hugh/go-collab/internal/projects"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type validatable interface {
	Validate() map[string]string
}

type sanitizer interface {
	Sanitize()
}

// decodeAndValidate reads a JSON body into req, sanitizes it when req
// supports that, and runs its Validate method. It writes the 400 itself and
// reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return false
	}

	if s, ok := req.(sanitizer); ok {
		s.Sanitize()
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return false
	}
	return true
}

func urlUUID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

func paginationFrom(r *http.Request) dto.PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()
	return pagination
}

func pageOf(p dto.PaginationParams) projects.Page {
	return projects.Page{Offset: p.Offset(), Limit: p.PerPage}
}

// writeServiceError maps service errors to HTTP responses. Anything
// unrecognised is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, auth.ErrUserExists):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Username already registered"})
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Password too long"})
	case errors.Is(err, projects.ErrDuplicateProject):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Project name already exists"})
	case errors.Is(err, membership.ErrInvalidRole):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid role"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, membership.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Only the project owner can grant access"})
	case errors.Is(err, membership.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Not authorized"})
	case errors.Is(err, membership.ErrProjectNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Project not found"})
	case errors.Is(err, projects.ErrDocumentNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Document not found"})
	case errors.Is(err, membership.ErrUserNotFound), errors.Is(err, auth.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
	case errors.Is(err, membership.ErrAlreadyMember):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "User is already a member"})
	case errors.Is(err, projects.ErrStorageDisabled):
		writeJSON(w, http.StatusNotImplemented, dto.ErrorResponse{Error: "Document storage is not configured"})
	default:
		logger.Error(op, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
