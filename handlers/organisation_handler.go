package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/services"
	"github.com/upb/org-auth/utils"
	"go.uber.org/zap"
)

// OrganisationService is the membership flow used by OrganisationHandler
type OrganisationService interface {
	ListForUser(ctx context.Context, callerID uuid.UUID) ([]*models.Organisation, error)
	GetForMember(ctx context.Context, callerID, orgID uuid.UUID) (*models.Organisation, error)
	Create(ctx context.Context, callerID uuid.UUID, req services.CreateOrganisationRequest) (*models.Organisation, error)
	AddMember(ctx context.Context, callerID, orgID uuid.UUID, req services.AddMemberRequest) error
}

// OrganisationList is the payload of GET /api/organisations
type OrganisationList struct {
	Organisations []*models.Organisation `json:"organisations"`
}

// OrganisationHandler serves /api/organisations
type OrganisationHandler struct {
	orgs   OrganisationService
	logger *zap.Logger
}

// NewOrganisationHandler creates a new OrganisationHandler
func NewOrganisationHandler(orgs OrganisationService, logger *zap.Logger) *OrganisationHandler {
	return &OrganisationHandler{orgs: orgs, logger: logger}
}

// HandleList handles GET /api/organisations
func (h *OrganisationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}

	orgs, err := h.orgs.ListForUser(r.Context(), callerID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	logResponseError(h.logger, utils.WriteOK(w, "Organisations retrieved", OrganisationList{Organisations: orgs}))
}

// HandleGet handles GET /api/organisations/{id}
func (h *OrganisationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}

	orgID, ok := pathID(w, r, h.logger, services.ErrOrganisationNotFound)
	if !ok {
		return
	}

	org, err := h.orgs.GetForMember(r.Context(), callerID, orgID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	logResponseError(h.logger, utils.WriteOK(w, "Organisation found", org))
}

// HandleCreate handles POST /api/organisations
func (h *OrganisationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}

	var req services.CreateOrganisationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		logResponseError(h.logger, utils.WriteUnprocessable(w, MessageInvalidBody))
		return
	}

	org, err := h.orgs.Create(r.Context(), callerID, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	logResponseError(h.logger, utils.WriteCreated(w, "Organisation created", org))
}

// HandleAddMember handles POST /api/organisations/{id}/users
func (h *OrganisationHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}

	var req services.AddMemberRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		logResponseError(h.logger, utils.WriteUnprocessable(w, MessageInvalidBody))
		return
	}

	// Missing userId is reported before the organisation is looked up.
	if err := utils.ValidateStruct(&req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	orgID, ok := pathID(w, r, h.logger, services.ErrOrganisationNotFound)
	if !ok {
		return
	}

	if err := h.orgs.AddMember(r.Context(), callerID, orgID, req); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	logResponseError(h.logger, utils.WriteOK(w, "User added to organisation successfully", nil))
}
