package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hugh/go-collab/internal/api/dto"
	"github.com/hugh/go-collab/internal/api/middleware"
	"github.com/hugh/go-collab/internal/auth"
)

type AuthHandler struct {
	authService auth.Authenticator
	logger      *slog.Logger
}

func NewAuthHandler(authService auth.Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Register handles POST /auth
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
	})
	if err != nil {
		writeServiceError(w, h.logger, "registering user", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewUserDTO(user))
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		// Unknown users and bad passwords look the same to clients.
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		writeServiceError(w, h.logger, "logging in", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: resp.Token,
		TokenType:   auth.TokenTypeBearer,
		ExpiresIn:   resp.ExpiresIn,
		User:        dto.NewUserDTO(resp.User),
	})
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewUserDTO(middleware.GetUser(r.Context())))
}
