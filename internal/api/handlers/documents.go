package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/api/dto"
	"github.com/hugh/go-collab/internal/api/middleware"
	"github.com/hugh/go-collab/internal/projects"
)

type DocumentHandler struct {
	projects *projects.Service
	logger   *slog.Logger
}

func NewDocumentHandler(projectService *projects.Service, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{projects: projectService, logger: logger}
}

// Create handles POST /documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.projects.CreateDocument(r.Context(), projects.CreateDocumentInput{
		Name:      req.Name,
		Type:      req.Type,
		Path:      req.Path,
		ProjectID: uuid.MustParse(req.ProjectID),
		UserID:    middleware.GetUserID(r.Context()),
	})
	if err != nil {
		writeServiceError(w, h.logger, "creating document", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewDocumentDTO(doc))
}

// Get handles GET /documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID, ok := urlUUID(w, r, "document")
	if !ok {
		return
	}

	doc, err := h.projects.GetDocument(r.Context(), documentID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, "getting document", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewDocumentDTO(doc))
}

// Update handles PUT /documents/{id}
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	documentID, ok := urlUUID(w, r, "document")
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input := projects.UpdateDocumentInput{
		DocumentID: documentID,
		Name:       req.Name,
		Type:       req.Type,
		Path:       req.Path,
		UserID:     middleware.GetUserID(r.Context()),
	}
	if req.ProjectID != nil {
		projectID := uuid.MustParse(*req.ProjectID)
		input.ProjectID = &projectID
	}

	doc, err := h.projects.UpdateDocument(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, "updating document", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewDocumentDTO(doc))
}

// ListByProject handles GET /projects/{id}/documents
func (h *DocumentHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlUUID(w, r, "project")
	if !ok {
		return
	}
	pagination := paginationFrom(r)

	docs, total, err := h.projects.ListProjectDocuments(r.Context(), projectID, pageOf(pagination))
	if err != nil {
		writeServiceError(w, h.logger, "listing documents", err)
		return
	}

	response := make([]dto.DocumentDTO, len(docs))
	for i := range docs {
		response[i] = dto.NewDocumentDTO(&docs[i])
	}

	writeJSON(w, http.StatusOK, dto.Paginate(response, total, pagination))
}

// Download handles GET /documents/{id}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	documentID, ok := urlUUID(w, r, "document")
	if !ok {
		return
	}

	link, err := h.projects.DocumentDownloadURL(r.Context(), documentID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, "presigning document", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DownloadResponse{
		URL:       link.URL,
		ExpiresAt: link.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
