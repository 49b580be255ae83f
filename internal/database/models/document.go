package models

import "github.com/google/uuid"

type Document struct {
	Base
	Name       string    `gorm:"size:50;not null" json:"name"`
	Type       string    `json:"type"`
	Path       string    `gorm:"not null" json:"path"` // object key in document storage
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	ModifiedBy uuid.UUID `gorm:"type:uuid;not null" json:"modified_by"`

	// Relationships
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
