package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/org-auth/models"
	"go.uber.org/zap"
)

// MembershipRepository implements the repositories.MembershipRepository interface
type MembershipRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *sql.DB, logger *zap.Logger) *MembershipRepository {
	return &MembershipRepository{
		db:     db,
		logger: logger,
	}
}

// Add links a user to an organisation
func (r *MembershipRepository) Add(ctx context.Context, m *models.Membership) error {
	query := `INSERT INTO user_organisation (userid, orgid) VALUES ($1, $2)`

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, m.UserID, m.OrgID); err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}

	r.logger.Debug("membership added",
		zap.String("user_id", m.UserID.String()),
		zap.String("org_id", m.OrgID.String()))
	return nil
}

// Exists reports whether the user belongs to the organisation
func (r *MembershipRepository) Exists(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_organisation WHERE userid = $1 AND orgid = $2)`

	var exists bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, userID, orgID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}
