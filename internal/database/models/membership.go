package models

import "github.com/google/uuid"

type Role string

const (
	RoleOwner       Role = "owner"
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleParticipant:
		return true
	}
	return false
}

// Membership is the single source of truth for project authorization.
// A user holds at most one role per project.
type Membership struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_project" json:"user_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_project;index" json:"project_id"`
	Role      Role      `gorm:"not null" json:"role"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Membership) TableName() string {
	return "project_memberships"
}
