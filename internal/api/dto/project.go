package dto

import (
	"time"

	"github.com/hugh/go-collab/internal/api/validation"
	"github.com/hugh/go-collab/internal/database/models"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	OwnerID     *string `json:"owner_id,omitempty" validate:"omitempty,uuid"`
}

func (r *CreateProjectRequest) Sanitize() {
	r.Name = validation.SanitizeName(r.Name)
	r.Description = validation.SanitizeString(r.Description)
}

func (r CreateProjectRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

func (r *UpdateProjectRequest) Sanitize() {
	validation.SanitizePtr(r.Name, validation.SanitizeName)
	validation.SanitizePtr(r.Description, validation.SanitizeString)
}

func (r UpdateProjectRequest) Validate() map[string]string {
	errors := validation.Struct(r)
	if r.Name == nil && r.Description == nil {
		if errors == nil {
			errors = make(map[string]string)
		}
		errors["body"] = "at least one of name or description is required"
	}
	return errors
}

type ProjectDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OwnerID     string  `json:"owner_id"`
	ModifiedBy  *string `json:"modified_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	// Role is the caller's membership role, set on single-project reads.
	Role string `json:"role,omitempty"`
}

func NewProjectDTO(p *models.Project) ProjectDTO {
	resp := ProjectDTO{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID.String(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if p.ModifiedBy != nil {
		s := p.ModifiedBy.String()
		resp.ModifiedBy = &s
	}
	return resp
}

type GrantAccessRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role,omitempty" validate:"omitempty,oneof=participant admin"`
}

func (r GrantAccessRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type MemberDTO struct {
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func NewMemberDTO(m *models.Membership) MemberDTO {
	return MemberDTO{
		UserID:    m.UserID.String(),
		ProjectID: m.ProjectID.String(),
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
