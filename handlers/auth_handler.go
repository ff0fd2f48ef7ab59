package handlers

import (
	"context"
	"net/http"

	"github.com/upb/org-auth/services"
	"github.com/upb/org-auth/utils"
	"go.uber.org/zap"
)

// AuthService is the registration and login flow used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.AuthResult, error)
}

// AuthHandler serves the public /auth endpoints
type AuthHandler struct {
	auth   AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		logResponseError(h.logger, utils.WriteUnprocessable(w, MessageInvalidBody))
		return
	}

	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, err, h.logger, func(w http.ResponseWriter) error {
			return utils.WriteUnprocessable(w, MessageRegistrationFailed)
		})
		return
	}

	logResponseError(h.logger, utils.WriteCreated(w, "Registration successful", result))
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		logResponseError(h.logger, utils.WriteUnprocessable(w, MessageInvalidBody))
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, err, h.logger, func(w http.ResponseWriter) error {
			return utils.WriteUnauthorized(w, MessageLoginFailed)
		})
		return
	}

	logResponseError(h.logger, utils.WriteOK(w, "Login successful", result))
}
