package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-collab/internal/database/models"
)

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	UserLookup
}

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService defines the interface for bearer token operations.
type TokenService interface {
	Issue(userID uuid.UUID) (string, error)
	TokenVerifier
}

type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
