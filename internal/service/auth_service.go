package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/shopfront/internal/auth"
	"github.com/mmynk/shopfront/internal/middleware"
	"github.com/mmynk/shopfront/internal/storage"
)

// AuthService handles login and logout of the current user.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

// Login handles POST /login_user. It overwrites the current-user slot and
// returns a bearer token for the user.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.authenticator.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) || errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, middleware.InternalErrorMessage)
		return
	}

	token, err := s.jwtManager.Generate(user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", "email", user.Email, "error", err)
		writeError(w, http.StatusInternalServerError, middleware.InternalErrorMessage)
		return
	}

	s.logger.Info("User logged in", "email", user.Email)
	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Email:   user.Email,
		Token:   token,
	})
}

// Logout handles POST /logout. Tokens are stateless and expire on their own.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.authenticator.Logout(); err != nil {
		if errors.Is(err, storage.ErrNoActiveUser) {
			writeError(w, http.StatusUnauthorized, NoActiveUserMessage)
			return
		}
		writeError(w, http.StatusInternalServerError, middleware.InternalErrorMessage)
		return
	}
	s.logger.Info("User logged out")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
