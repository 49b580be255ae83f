package models

type User struct {
	Base
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Name         string  `gorm:"size:50;not null" json:"name"`
	Surname      *string `gorm:"size:50" json:"surname,omitempty"`
	Email        string  `gorm:"index;not null" json:"email"`

	// Relationships
	Memberships []Membership `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
