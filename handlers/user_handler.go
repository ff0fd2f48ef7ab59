package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/org-auth/middleware"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/services"
	"github.com/upb/org-auth/utils"
	"go.uber.org/zap"
)

// UserService looks up users for UserHandler
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.PublicUser, error)
}

// UserHandler serves /api/users
type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleGet handles GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCaller(w, r, h.logger); !ok {
		return
	}

	id, ok := pathID(w, r, h.logger, services.ErrUserNotFound)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	logResponseError(h.logger, utils.WriteOK(w, "User found", user))
}

// requireCaller returns the authenticated user's id, answering 401 when the
// route is reached without RequireAuth.
func requireCaller(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		logResponseError(logger, utils.WriteUnauthorized(w, middleware.MessageAccessDenied))
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the {id} URL parameter. A malformed id is answered with notFound.
func pathID(w http.ResponseWriter, r *http.Request, logger *zap.Logger, notFound error) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		logger.Debug("malformed path id", zap.Error(err))
		HandleServiceError(w, notFound, logger)
		return uuid.Nil, false
	}
	return id, true
}
