package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/api/dto"
	"github.com/hugh/go-collab/internal/api/middleware"
	"github.com/hugh/go-collab/internal/projects"
)

type ProjectHandler struct {
	projects *projects.Service
	logger   *slog.Logger
}

func NewProjectHandler(projectService *projects.Service, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projectService, logger: logger}
}

// Create handles POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Projects are always created for the caller.
	if req.OwnerID != nil && *req.OwnerID != "" && uuid.MustParse(*req.OwnerID) != userID {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "owner_id must be the authenticated user"})
		return
	}

	project, err := h.projects.CreateProject(r.Context(), projects.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		writeServiceError(w, h.logger, "creating project", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewProjectDTO(project))
}

// List handles GET /projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	pagination := paginationFrom(r)

	list, total, err := h.projects.ListProjects(r.Context(), userID, pageOf(pagination))
	if err != nil {
		writeServiceError(w, h.logger, "listing projects", err)
		return
	}

	response := make([]dto.ProjectDTO, len(list))
	for i := range list {
		response[i] = dto.NewProjectDTO(&list[i])
	}

	writeJSON(w, http.StatusOK, dto.Paginate(response, total, pagination))
}

// Get handles GET /projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlUUID(w, r, "project")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, "getting project", err)
		return
	}

	resp := dto.NewProjectDTO(project)
	resp.Role = string(middleware.GetProjectRole(r.Context()))
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlUUID(w, r, "project")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), projects.UpdateProjectInput{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		ModifiedBy:  middleware.GetUserID(r.Context()),
	})
	if err != nil {
		writeServiceError(w, h.logger, "updating project", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewProjectDTO(project))
}

// Delete handles DELETE /projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlUUID(w, r, "project")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(r.Context(), projectID, middleware.GetUserID(r.Context())); err != nil {
		writeServiceError(w, h.logger, "deleting project", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Project deleted"})
}
