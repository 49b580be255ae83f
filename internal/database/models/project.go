package models

import "github.com/google/uuid"

type Project struct {
	Base
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Description string     `json:"description"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	ModifiedBy  *uuid.UUID `gorm:"type:uuid" json:"modified_by,omitempty"`

	// Relationships
	Owner       *User        `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships []Membership `gorm:"foreignKey:ProjectID" json:"-"`
	Documents   []Document   `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}
