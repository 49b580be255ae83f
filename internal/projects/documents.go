package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/blobstore"
	"github.com/hugh/go-collab/internal/database/models"
	"github.com/hugh/go-collab/internal/membership"
	"gorm.io/gorm"
)

type CreateDocumentInput struct {
	Name      string
	Type      string
	Path      string
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

// CreateDocument adds a document to a project the user may contribute to.
// An empty Path gets a generated object key.
func (s *Service) CreateDocument(ctx context.Context, input CreateDocumentInput) (*models.Document, error) {
	if err := requireContributor(ctx, s.members, input.UserID, input.ProjectID); err != nil {
		return nil, err
	}

	path := input.Path
	if path == "" {
		path = blobstore.NewKey(input.ProjectID, input.Name)
	}

	doc := models.Document{
		Name:       input.Name,
		Type:       input.Type,
		Path:       path,
		ProjectID:  input.ProjectID,
		ModifiedBy: input.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	s.logger.Info("document created", "document_id", doc.ID, "project_id", doc.ProjectID)

	return &doc, nil
}

type UpdateDocumentInput struct {
	DocumentID uuid.UUID
	Name       *string
	Type       *string
	Path       *string
	ProjectID  *uuid.UUID
	UserID     uuid.UUID
}

// UpdateDocument edits a document and stamps the editor. Moving a document
// needs contribute rights on both projects.
func (s *Service) UpdateDocument(ctx context.Context, input UpdateDocumentInput) (*models.Document, error) {
	var doc models.Document

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadDocument(tx, input.DocumentID, &doc); err != nil {
			return err
		}

		members := s.members.WithTx(tx)
		if err := requireContributor(ctx, members, input.UserID, doc.ProjectID); err != nil {
			return err
		}
		if input.ProjectID != nil && *input.ProjectID != doc.ProjectID {
			if err := requireContributor(ctx, members, input.UserID, *input.ProjectID); err != nil {
				return err
			}
			doc.ProjectID = *input.ProjectID
		}

		if input.Name != nil {
			doc.Name = *input.Name
		}
		if input.Type != nil {
			doc.Type = *input.Type
		}
		if input.Path != nil {
			doc.Path = *input.Path
		}
		doc.ModifiedBy = input.UserID

		if err := tx.Save(&doc).Error; err != nil {
			return fmt.Errorf("updating document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// GetDocument returns a document to a member of its project.
func (s *Service) GetDocument(ctx context.Context, documentID, userID uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := loadDocument(s.db.WithContext(ctx), documentID, &doc); err != nil {
		return nil, err
	}
	if _, err := s.members.Authorize(ctx, userID, doc.ProjectID); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListProjectDocuments pages through a project's documents. Callers check
// membership.
func (s *Service) ListProjectDocuments(ctx context.Context, projectID uuid.UUID, page Page) ([]models.Document, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("project_id = ?", projectID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting documents: %w", err)
	}

	var docs []models.Document
	if err := query.
		Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("listing documents: %w", err)
	}

	return docs, total, nil
}

// DocumentDownloadURL returns a presigned link to the document's object.
func (s *Service) DocumentDownloadURL(ctx context.Context, documentID, userID uuid.UUID) (*blobstore.PresignedURL, error) {
	if s.links == nil {
		return nil, ErrStorageDisabled
	}

	doc, err := s.GetDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	return s.links.PresignGet(ctx, doc.Path)
}

func requireContributor(ctx context.Context, members *membership.Service, userID, projectID uuid.UUID) error {
	role, err := members.Authorize(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !membership.CanContribute(role) {
		return membership.ErrNotAuthorized
	}
	return nil
}

func loadDocument(db *gorm.DB, documentID uuid.UUID, doc *models.Document) error {
	err := db.First(doc, "id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDocumentNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up document: %w", err)
	}
	return nil
}
