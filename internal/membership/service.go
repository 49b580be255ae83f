// Package membership stores which users belong to which projects and answers
// the authorization questions asked before any role-gated mutation.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotOwner        = errors.New("only the project owner can grant access")
	ErrAlreadyMember   = errors.New("user is already a member of this project")
	ErrNotMember       = errors.New("user is not a member of this project")
	ErrNotAuthorized   = errors.New("not authorized for this project")
	ErrInvalidRole     = errors.New("invalid role")
)

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// WithTx returns a copy of the service whose queries run inside tx.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, logger: s.logger}
}

// AddMember inserts a membership row. A (user, project) pair can hold only
// one role.
func (s *Service) AddMember(ctx context.Context, userID, projectID uuid.UUID, role models.Role) (*models.Membership, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyMember
	}

	m := models.Membership{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("creating membership: %w", err)
	}

	return &m, nil
}

// Role returns the caller's role on the project, or ErrNotMember.
func (s *Service) Role(ctx context.Context, userID, projectID uuid.UUID) (models.Role, error) {
	var m models.Membership
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotMember
	}
	if err != nil {
		return "", fmt.Errorf("looking up membership: %w", err)
	}
	return m.Role, nil
}

// IsParticipant reports whether the user is an owner or participant of the
// project. Admins are deliberately not counted.
func (s *Service) IsParticipant(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	return s.hasRole(ctx, userID, projectID, models.RoleOwner, models.RoleParticipant)
}

// IsAdmin reports whether the user holds exactly the admin role.
func (s *Service) IsAdmin(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	return s.hasRole(ctx, userID, projectID, models.RoleAdmin)
}

func (s *Service) hasRole(ctx context.Context, userID, projectID uuid.UUID, roles ...models.Role) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND project_id = ? AND role IN ?", userID, projectID, roles).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return count > 0, nil
}

// Authorize resolves the caller's role on an existing project. It returns
// ErrProjectNotFound for unknown projects and ErrNotAuthorized for
// non-members.
func (s *Service) Authorize(ctx context.Context, userID, projectID uuid.UUID) (models.Role, error) {
	if _, err := s.project(ctx, projectID); err != nil {
		return "", err
	}
	role, err := s.Role(ctx, userID, projectID)
	if errors.Is(err, ErrNotMember) {
		return "", ErrNotAuthorized
	}
	return role, err
}

type GrantInput struct {
	ProjectID uuid.UUID
	OwnerID   uuid.UUID
	InviteeID uuid.UUID
	Role      models.Role
}

// GrantAccess lets a project owner add another user. Role defaults to
// participant; owner cannot be granted.
func (s *Service) GrantAccess(ctx context.Context, input GrantInput) (*models.Membership, error) {
	role := input.Role
	if role == "" {
		role = models.RoleParticipant
	}
	if role != models.RoleParticipant && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	project, err := s.project(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != input.OwnerID {
		return nil, ErrNotOwner
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", input.InviteeID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("looking up invitee: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	m, err := s.AddMember(ctx, input.InviteeID, input.ProjectID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("membership granted",
		"project_id", input.ProjectID,
		"user_id", input.InviteeID,
		"role", role,
	)

	return m, nil
}

func (s *Service) ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.Membership, error) {
	var members []models.Membership
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

// RemoveAll deletes every membership of a project. Callers run it inside the
// transaction that deletes the project.
func (s *Service) RemoveAll(ctx context.Context, projectID uuid.UUID) error {
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.Membership{}).Error; err != nil {
		return fmt.Errorf("deleting memberships: %w", err)
	}
	return nil
}

func (s *Service) project(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := s.db.WithContext(ctx).First(&p, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up project: %w", err)
	}
	return &p, nil
}
