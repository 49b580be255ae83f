package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/database/models"
	"github.com/hugh/go-collab/internal/membership"
)

// ProjectAuthorizer resolves a user's role on a project.
type ProjectAuthorizer interface {
	Authorize(ctx context.Context, userID, projectID uuid.UUID) (models.Role, error)
}

// RequireProjectMember rejects callers without a membership on the project
// named by the {id} URL parameter. Must run after Auth.
func RequireProjectMember(checker ProjectAuthorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			projectID, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid project ID")
				return
			}

			role, err := checker.Authorize(r.Context(), GetUserID(r.Context()), projectID)
			switch {
			case err == nil:
			case errors.Is(err, membership.ErrProjectNotFound):
				writeError(w, http.StatusNotFound, "Project not found")
				return
			case errors.Is(err, membership.ErrNotAuthorized):
				writeError(w, http.StatusForbidden, "Not a member of this project")
				return
			default:
				logger.Error("checking project membership", "project_id", projectID, "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), ProjectRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
