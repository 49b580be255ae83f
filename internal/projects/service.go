// Package projects is the registry of projects and their documents. Every
// role-gated mutation consults the membership service first.
package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/blobstore"
	"github.com/hugh/go-collab/internal/database/models"
	"github.com/hugh/go-collab/internal/membership"
	"gorm.io/gorm"
)

var (
	ErrDuplicateProject = errors.New("project name already exists")
	ErrDocumentNotFound = errors.New("document not found")
	ErrStorageDisabled  = errors.New("document storage is not configured")
)

// LinkSigner issues download links for stored document objects.
type LinkSigner interface {
	PresignGet(ctx context.Context, key string) (*blobstore.PresignedURL, error)
}

type Service struct {
	db      *gorm.DB
	members *membership.Service
	links   LinkSigner
	logger  *slog.Logger
}

// NewService wires the registry. links may be nil when no bucket is
// configured; download links then fail with ErrStorageDisabled.
func NewService(db *gorm.DB, members *membership.Service, links LinkSigner, logger *slog.Logger) *Service {
	return &Service{db: db, members: members, links: links, logger: logger}
}

// Page selects a window of a listing.
type Page struct {
	Offset int
	Limit  int
}

type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uuid.UUID
}

// CreateProject stores the project and its owner membership in one
// transaction.
func (s *Service) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := nameAvailable(tx, input.Name, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateProject
			}
			return fmt.Errorf("creating project: %w", err)
		}
		_, err := s.members.WithTx(tx).AddMember(ctx, input.OwnerID, project.ID, models.RoleOwner)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project_id", project.ID, "owner_id", project.OwnerID)

	return &project, nil
}

func (s *Service) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, membership.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up project: %w", err)
	}
	return &project, nil
}

// ListProjects returns the projects userID is a member of, newest first,
// along with the total count.
func (s *Service) ListProjects(ctx context.Context, userID uuid.UUID, page Page) ([]models.Project, int64, error) {
	memberOf := s.db.Model(&models.Membership{}).
		Select("project_id").
		Where("user_id = ?", userID)

	query := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id IN (?)", memberOf).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting projects: %w", err)
	}

	var list []models.Project
	if err := query.
		Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("listing projects: %w", err)
	}

	return list, total, nil
}

type UpdateProjectInput struct {
	ProjectID   uuid.UUID
	Name        *string
	Description *string
	ModifiedBy  uuid.UUID
}

// UpdateProject changes name and description. Any member may edit; the
// owner cannot be changed.
func (s *Service) UpdateProject(ctx context.Context, input UpdateProjectInput) (*models.Project, error) {
	var project models.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := s.members.WithTx(tx).Authorize(ctx, input.ModifiedBy, input.ProjectID)
		if err != nil {
			return err
		}
		if !membership.CanContribute(role) {
			return membership.ErrNotAuthorized
		}

		if err := tx.First(&project, "id = ?", input.ProjectID).Error; err != nil {
			return fmt.Errorf("loading project: %w", err)
		}

		if input.Name != nil && *input.Name != project.Name {
			if err := nameAvailable(tx, *input.Name, project.ID); err != nil {
				return err
			}
			project.Name = *input.Name
		}
		if input.Description != nil {
			project.Description = *input.Description
		}
		modifiedBy := input.ModifiedBy
		project.ModifiedBy = &modifiedBy

		if err := tx.Save(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateProject
			}
			return fmt.Errorf("updating project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// DeleteProject removes the project with its documents and memberships.
// Owners and admins may delete.
func (s *Service) DeleteProject(ctx context.Context, projectID, requesterID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := s.members.WithTx(tx)

		role, err := members.Authorize(ctx, requesterID, projectID)
		if err != nil {
			return err
		}
		if !membership.CanDelete(role) {
			return membership.ErrNotAuthorized
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.Document{}).Error; err != nil {
			return fmt.Errorf("deleting documents: %w", err)
		}
		if err := members.RemoveAll(ctx, projectID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Project{}, "id = ?", projectID).Error; err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted", "project_id", projectID, "deleted_by", requesterID)

	return nil
}

func nameAvailable(tx *gorm.DB, name string, except uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Project{}).
		Where("name = ? AND id <> ?", name, except).
		Count(&count).Error; err != nil {
		return fmt.Errorf("checking project name: %w", err)
	}
	if count > 0 {
		return ErrDuplicateProject
	}
	return nil
}
