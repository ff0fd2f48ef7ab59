package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/org-auth/config"
	"github.com/upb/org-auth/handlers"
	"github.com/upb/org-auth/internal/auth"
	"github.com/upb/org-auth/internal/observability"
	"github.com/upb/org-auth/middleware"
	"github.com/upb/org-auth/repositories"
	"github.com/upb/org-auth/repositories/postgres"
	"github.com/upb/org-auth/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users         repositories.UserRepository
	Organisations repositories.OrganisationRepository
	Memberships   repositories.MembershipRepository
	TxManager     repositories.TransactionManager

	// Auth
	Hasher         auth.PasswordHasher
	Tokens         *auth.TokenService
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	AuthService         *services.AuthService
	UserService         *services.UserService
	OrganisationService *services.OrganisationService
}

// NewDependencies opens the database and wires every component on top of it
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	txMgr := factory.GetTransactionManager()
	deps := NewDependenciesWithRepositories(cfg, logger, factory.NewRepositories(), txMgr)
	deps.RepoFactory = factory
	deps.DB = factory.GetDB()
	deps.Metrics.RegisterDB(deps.DB.DB, cfg.Database.Database)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesWithRepositories wires auth and services over the given
// repositories without opening a database. DB and RepoFactory stay nil.
func NewDependenciesWithRepositories(
	cfg *config.Config,
	logger *zap.Logger,
	repos *repositories.Repositories,
	txMgr repositories.TransactionManager,
) *Dependencies {
	d := &Dependencies{
		Config:        cfg,
		Logger:        logger,
		Metrics:       observability.NewMetrics(),
		Users:         repos.Users,
		Organisations: repos.Organisations,
		Memberships:   repos.Memberships,
		TxManager:     txMgr,
	}

	d.initAuth(cfg)
	d.initServices(cfg, repos)
	return d
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	d.Hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	d.Tokens = auth.NewTokenService(cfg.Auth)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Tokens, d.Logger)
	d.Logger.Info("auth initialized",
		zap.Duration("token_ttl", cfg.Auth.TokenTTL),
		zap.String("issuer", cfg.Auth.Issuer))
}

func (d *Dependencies) initServices(cfg *config.Config, repos *repositories.Repositories) {
	d.AuthService = services.NewAuthService(repos, d.TxManager, d.Hasher, d.Tokens, d.Metrics, d.Logger)
	d.UserService = services.NewUserService(repos.Users, d.Logger)
	d.OrganisationService = services.NewOrganisationService(
		repos,
		d.TxManager,
		services.MembershipPolicy{RequireCallerMembership: cfg.Auth.RequireCallerMembership},
		d.Metrics,
		d.Logger,
	)
}

// HealthChecker returns the database health probe, or nil when no database was opened
func (d *Dependencies) HealthChecker() handlers.HealthChecker {
	if d.DB == nil {
		return nil
	}
	return d.DB
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
