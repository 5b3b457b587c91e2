package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
	"github.com/sgkaarstdave/AbrechnungApp/internal/service"
)

// Authenticator is implemented by service.AuthService.
type Authenticator interface {
	Register(ctx context.Context, input service.RegisterInput) (*domain.Trainer, error)
	Login(ctx context.Context, input service.LoginInput) (*service.AuthResult, error)
}

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authSvc Authenticator
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	trainer, err := h.authSvc.Register(r.Context(), input)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}

	RespondJSON(w, http.StatusCreated, trainer)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}
	input.IP = ClientIP(r)

	result, err := h.authSvc.Login(r.Context(), input)
	if err != nil {
		RespondErrorLogged(w, r, h.logger, err)
		return
	}

	RespondJSON(w, http.StatusOK, result)
}
