package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/upb/org-auth/internal/auth"
	"github.com/upb/org-auth/internal/observability"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/repositories"
	"github.com/upb/org-auth/utils"
	"go.uber.org/zap"
)

// TokenIssuer issues bearer tokens for a user
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// AuthService implements registration and login
type AuthService struct {
	users       repositories.UserRepository
	orgs        repositories.OrganisationRepository
	memberships repositories.MembershipRepository
	txMgr       repositories.TransactionManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
	metrics     *observability.Metrics
	logger      *zap.Logger

	// dummyHash is compared against when the email is unknown so both login
	// failures cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. metrics may be nil.
func NewAuthService(
	repos *repositories.Repositories,
	txMgr repositories.TransactionManager,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       repos.Users,
		orgs:        repos.Organisations,
		memberships: repos.Memberships,
		txMgr:       txMgr,
		hasher:      hasher,
		tokens:      tokens,
		metrics:     metrics,
		logger:      logger,
	}
}

// Register creates the user, a default organisation and the membership linking
// them in one transaction, then issues a token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (result *AuthResult, err error) {
	defer func() { s.record("register", err) }()

	if err := utils.ValidateStruct(&req); err != nil {
		return nil, err
	}

	_, err = s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, WrapInternal("failed to check email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(req.FirstName, req.LastName, req.Email, hash, req.Phone)
	org := models.NewOrganisation(models.DefaultOrganisationName(req.FirstName), nil)

	err = WithTransaction(ctx, s.txMgr, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if err := s.orgs.Create(ctx, org); err != nil {
			return err
		}
		return s.memberships.Add(ctx, models.NewMembership(user.UserID, org.OrgID))
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, WrapInternal("failed to persist registration", err)
	}
	s.metrics.RecordMembershipAdded("registration")

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, WrapInternal("failed to issue token", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.UserID.String()),
		zap.String("org_id", org.OrgID.String()))

	return &AuthResult{AccessToken: token, User: user.Public()}, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (result *AuthResult, err error) {
	defer func() { s.record("login", err) }()

	if err := utils.ValidateStruct(&req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.checkDummy(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, WrapInternal("failed to look up user", err)
	}

	if !s.hasher.Check(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, WrapInternal("failed to issue token", err)
	}

	s.logger.Debug("user logged in", zap.String("user_id", user.UserID.String()))
	return &AuthResult{AccessToken: token, User: user.Public()}, nil
}

func (s *AuthService) checkDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("unknown-account")
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	s.hasher.Check(password, s.dummyHash)
}

func (s *AuthService) record(event string, err error) {
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = observability.OutcomeFailure
	}
	s.metrics.RecordAuthEvent(event, outcome)
}
