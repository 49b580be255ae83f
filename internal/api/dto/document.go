package dto

import (
	"time"

	"github.com/hugh/go-collab/internal/api/validation"
	"github.com/hugh/go-collab/internal/database/models"
)

type CreateDocumentRequest struct {
	Name      string `json:"name" validate:"required,max=50"`
	Type      string `json:"type" validate:"max=100"`
	Path      string `json:"path" validate:"max=1024"`
	ProjectID string `json:"project_id" validate:"required,uuid"`
}

func (r *CreateDocumentRequest) Sanitize() {
	r.Name = validation.SanitizeName(r.Name)
	r.Type = validation.SanitizeName(r.Type)
}

func (r CreateDocumentRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type UpdateDocumentRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Type      *string `json:"type,omitempty" validate:"omitempty,max=100"`
	Path      *string `json:"path,omitempty" validate:"omitempty,max=1024"`
	ProjectID *string `json:"project_id,omitempty" validate:"omitempty,uuid"`
}

func (r *UpdateDocumentRequest) Sanitize() {
	validation.SanitizePtr(r.Name, validation.SanitizeName)
	validation.SanitizePtr(r.Type, validation.SanitizeName)
}

func (r UpdateDocumentRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type DocumentDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Path       string `json:"path"`
	ProjectID  string `json:"project_id"`
	ModifiedBy string `json:"modified_by"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func NewDocumentDTO(d *models.Document) DocumentDTO {
	return DocumentDTO{
		ID:         d.ID.String(),
		Name:       d.Name,
		Type:       d.Type,
		Path:       d.Path,
		ProjectID:  d.ProjectID.String(),
		ModifiedBy: d.ModifiedBy.String(),
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  d.UpdatedAt.Format(time.RFC3339),
	}
}

type DownloadResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}
