package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenTypeBearer is embedded in every issued token and required on verify.
	TokenTypeBearer = "bearer"

	DefaultTokenExpiry = 60 * time.Minute

	issuer = "go-collab"
)

// ErrInvalidToken is the only error Verify returns. Signature, format and
// expiry failures are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	if c.Subject == "" {
		return uuid.Nil, errors.New("missing subject")
	}
	return uuid.Parse(c.Subject)
}

// JWTService issues and verifies stateless HS256 bearer tokens. Tokens are
// not revocable: rotating the secret is the only way to invalidate them.
type JWTService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

type JWTOption func(*JWTService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		s.now = now
	}
}

func NewJWTService(secret string, expiry time.Duration, opts ...JWTOption) *JWTService {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	s := &JWTService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

func (s *JWTService) Issue(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := Claims{
		TokenType: TokenTypeBearer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != TokenTypeBearer {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
