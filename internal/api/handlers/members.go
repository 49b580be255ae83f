package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/api/dto"
	"github.com/hugh/go-collab/internal/api/middleware"
	"github.com/hugh/go-collab/internal/database/models"
	"github.com/hugh/go-collab/internal/membership"
)

type MemberHandler struct {
	members *membership.Service
	logger  *slog.Logger
}

func NewMemberHandler(members *membership.Service, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{members: members, logger: logger}
}

// List handles GET /projects/{id}/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlUUID(w, r, "project")
	if !ok {
		return
	}

	members, err := h.members.ListMembers(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, "listing members", err)
		return
	}

	response := make([]dto.MemberDTO, len(members))
	for i := range members {
		response[i] = dto.NewMemberDTO(&members[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// Grant handles POST /projects/{id}/members
func (h *MemberHandler) Grant(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlUUID(w, r, "project")
	if !ok {
		return
	}

	var req dto.GrantAccessRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.members.GrantAccess(r.Context(), membership.GrantInput{
		ProjectID: projectID,
		OwnerID:   middleware.GetUserID(r.Context()),
		InviteeID: uuid.MustParse(req.UserID),
		Role:      models.Role(req.Role),
	})
	if err != nil {
		writeServiceError(w, h.logger, "granting access", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewMemberDTO(m))
}
