package dto

import (
	"time"

	"github.com/hugh/go-collab/internal/api/validation"
	"github.com/hugh/go-collab/internal/database/models"
)

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50,printascii"`
	Password string  `json:"password" validate:"required,max=72"`
	Name     string  `json:"name" validate:"required,max=50"`
	Surname  *string `json:"surname,omitempty" validate:"omitempty,max=50"`
	Email    string  `json:"email" validate:"required,email"`
}

func (r *RegisterRequest) Sanitize() {
	r.Name = validation.SanitizeName(r.Name)
	validation.SanitizePtr(r.Surname, validation.SanitizeName)
}

func (r RegisterRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() map[string]string {
	return validation.Struct(r)
}

type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"`
	User        UserDTO `json:"user"`
}

type UserDTO struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	Surname   *string `json:"surname,omitempty"`
	Email     string  `json:"email"`
	CreatedAt string  `json:"created_at"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Username:  u.Username,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
