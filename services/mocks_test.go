package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/repositories"
)

// MockTransactionManager is a mock implementation of TransactionManager
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// MockTransaction is a mock implementation of Transaction
type MockTransaction struct {
	mock.Mock
	ctx        context.Context
	committed  bool
	rolledback bool
}

func newMockTransaction(ctx context.Context) *MockTransaction {
	return &MockTransaction{ctx: ctx}
}

func (m *MockTransaction) Commit() error {
	args := m.Called()
	m.committed = true
	return args.Error(0)
}

func (m *MockTransaction) Rollback() error {
	args := m.Called()
	m.rolledback = true
	return args.Error(0)
}

func (m *MockTransaction) Context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrganisationRepository struct {
	mock.Mock
}

func (m *MockOrganisationRepository) Create(ctx context.Context, org *models.Organisation) error {
	return m.Called(ctx, org).Error(0)
}

func (m *MockOrganisationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*models.Organisation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganisationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Organisation, error) {
	args := m.Called(ctx, userID)
	if o := args.Get(0); o != nil {
		return o.([]*models.Organisation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganisationRepository) GetForMember(ctx context.Context, userID, orgID uuid.UUID) (*models.Organisation, error) {
	args := m.Called(ctx, userID, orgID)
	if o := args.Get(0); o != nil {
		return o.(*models.Organisation), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

// Add records the pair as separate arguments so expectations can match on ids.
func (m *MockMembershipRepository) Add(ctx context.Context, membership *models.Membership) error {
	return m.Called(ctx, membership.UserID, membership.OrgID).Error(0)
}

func (m *MockMembershipRepository) Exists(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, orgID)
	return args.Bool(0), args.Error(1)
}

// fixture bundles the mocks used by the service tests
type fixture struct {
	users   *MockUserRepository
	orgs    *MockOrganisationRepository
	members *MockMembershipRepository
	txMgr   *MockTransactionManager
	tx      *MockTransaction
}

func newFixture() *fixture {
	return &fixture{
		users:   new(MockUserRepository),
		orgs:    new(MockOrganisationRepository),
		members: new(MockMembershipRepository),
		txMgr:   new(MockTransactionManager),
		tx:      newMockTransaction(context.Background()),
	}
}

func (f *fixture) repos() *repositories.Repositories {
	return &repositories.Repositories{
		Users:         f.users,
		Organisations: f.orgs,
		Memberships:   f.members,
	}
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.users.AssertExpectations(t)
	f.orgs.AssertExpectations(t)
	f.members.AssertExpectations(t)
	f.txMgr.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}
