package postgres

import (
	"context"

	"github.com/upb/org-auth/config"
	"github.com/upb/org-auth/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory opens the pool and, when configured, brings the schema up to date
func NewRepositoryFactory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	f := &RepositoryFactory{db: db, logger: logger}

	if cfg.Database.AutoMigrate {
		if err := f.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return f, nil
}

// Migrate applies pending migrations
func (f *RepositoryFactory) Migrate(ctx context.Context) error {
	m, err := NewMigrator(f.db.DB, f.logger)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:         NewUserRepository(f.db.DB, f.logger),
		Organisations: NewOrganisationRepository(f.db.DB, f.logger),
		Memberships:   NewMembershipRepository(f.db.DB, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db.DB, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
