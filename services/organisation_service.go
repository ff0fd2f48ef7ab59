package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/org-auth/internal/observability"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/repositories"
	"github.com/upb/org-auth/utils"
	"go.uber.org/zap"
)

// MembershipPolicy decides who may add users to an organisation
type MembershipPolicy struct {
	// RequireCallerMembership limits adding users to existing members of the organisation.
	RequireCallerMembership bool
}

// OrganisationService implements organisation listing, creation and membership
type OrganisationService struct {
	users       repositories.UserRepository
	orgs        repositories.OrganisationRepository
	memberships repositories.MembershipRepository
	txMgr       repositories.TransactionManager
	policy      MembershipPolicy
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewOrganisationService creates a new OrganisationService. metrics may be nil.
func NewOrganisationService(
	repos *repositories.Repositories,
	txMgr repositories.TransactionManager,
	policy MembershipPolicy,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *OrganisationService {
	return &OrganisationService{
		users:       repos.Users,
		orgs:        repos.Organisations,
		memberships: repos.Memberships,
		txMgr:       txMgr,
		policy:      policy,
		metrics:     metrics,
		logger:      logger,
	}
}

// ListForUser returns every organisation the caller belongs to
func (s *OrganisationService) ListForUser(ctx context.Context, callerID uuid.UUID) ([]*models.Organisation, error) {
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, WrapInternal("failed to get user", err)
	}

	orgs, err := s.orgs.ListByUserID(ctx, callerID)
	if err != nil {
		return nil, WrapInternal("failed to list organisations", err)
	}
	if orgs == nil {
		orgs = []*models.Organisation{}
	}
	return orgs, nil
}

// GetForMember returns the organisation only when the caller belongs to it.
// Existing organisations the caller is not part of are reported as not found.
func (s *OrganisationService) GetForMember(ctx context.Context, callerID, orgID uuid.UUID) (*models.Organisation, error) {
	org, err := s.orgs.GetForMember(ctx, callerID, orgID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrganisationNotFound
		}
		return nil, WrapInternal("failed to get organisation", err)
	}
	return org, nil
}

// Create inserts the organisation and makes the caller its first member
func (s *OrganisationService) Create(ctx context.Context, callerID uuid.UUID, req CreateOrganisationRequest) (*models.Organisation, error) {
	if err := utils.ValidateStruct(&req); err != nil {
		return nil, err
	}

	org := models.NewOrganisation(req.Name, req.Description)

	err := WithTransaction(ctx, s.txMgr, func(ctx context.Context) error {
		if err := s.orgs.Create(ctx, org); err != nil {
			return err
		}
		return s.memberships.Add(ctx, models.NewMembership(callerID, org.OrgID))
	})
	if err != nil {
		return nil, WrapInternal("failed to create organisation", err)
	}
	s.metrics.RecordMembershipAdded("create")

	s.logger.Info("organisation created",
		zap.String("org_id", org.OrgID.String()),
		zap.String("created_by", callerID.String()))
	return org, nil
}

// AddMember links an existing user to an existing organisation. Repeated
// calls add repeated membership rows.
func (s *OrganisationService) AddMember(ctx context.Context, callerID, orgID uuid.UUID, req AddMemberRequest) error {
	if err := utils.ValidateStruct(&req); err != nil {
		return err
	}

	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrganisationNotFound
		}
		return WrapInternal("failed to get organisation", err)
	}

	if s.policy.RequireCallerMembership {
		member, err := s.memberships.Exists(ctx, callerID, orgID)
		if err != nil {
			return WrapInternal("failed to check caller membership", err)
		}
		if !member {
			s.logger.Warn("add member rejected: caller is not a member",
				zap.String("caller_id", callerID.String()),
				zap.String("org_id", orgID.String()))
			return ErrOrganisationNotFound
		}
	}

	userID, err := utils.ParseUUID(req.UserID, "userId")
	if err != nil {
		s.logger.Debug("add member: malformed user id", zap.Error(err))
		return ErrUserNotFound
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return WrapInternal("failed to get user", err)
	}

	if err := s.memberships.Add(ctx, models.NewMembership(userID, orgID)); err != nil {
		return WrapInternal("failed to add member", err)
	}
	s.metrics.RecordMembershipAdded("add")

	s.logger.Info("member added",
		zap.String("org_id", orgID.String()),
		zap.String("user_id", userID.String()),
		zap.String("added_by", callerID.String()))
	return nil
}
