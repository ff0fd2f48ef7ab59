package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/org-auth/models"
)

var (
	// ErrNotFound is returned (wrapped) when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned (wrapped) when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error

	// Context returns a context carrying the transaction. Repository calls made
	// with it run inside the transaction.
	Context() context.Context
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create inserts a new user. A taken email yields ErrDuplicate.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by exact email match
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// OrganisationRepository handles organisation data operations
type OrganisationRepository interface {
	Create(ctx context.Context, org *models.Organisation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error)

	// ListByUserID returns every organisation the user belongs to, in membership insertion order
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Organisation, error)

	// GetForMember returns the organisation only when userID is a member of it
	GetForMember(ctx context.Context, userID, orgID uuid.UUID) (*models.Organisation, error)
}

// MembershipRepository handles the user/organisation join table
type MembershipRepository interface {
	// Add inserts a membership row. It does not check for an existing one.
	Add(ctx context.Context, m *models.Membership) error

	// Exists reports whether at least one membership row links the pair
	Exists(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users         UserRepository
	Organisations OrganisationRepository
	Memberships   MembershipRepository
}
