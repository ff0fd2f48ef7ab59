package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/repositories"
	"go.uber.org/zap"
)

// OrganisationRepository implements the repositories.OrganisationRepository interface
type OrganisationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrganisationRepository creates a new organisation repository
func NewOrganisationRepository(db *sql.DB, logger *zap.Logger) *OrganisationRepository {
	return &OrganisationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new organisation
func (r *OrganisationRepository) Create(ctx context.Context, org *models.Organisation) error {
	query := `
		INSERT INTO "Organisation" (orgid, name, description)
		VALUES ($1, $2, $3)
	`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, org.OrgID, org.Name, org.Description); err != nil {
		return fmt.Errorf("failed to create organisation: %w", err)
	}

	r.logger.Debug("organisation created", zap.String("id", org.OrgID.String()), zap.String("name", org.Name))
	return nil
}

// GetByID retrieves an organisation by ID
func (r *OrganisationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	query := `
		SELECT orgid, name, description
		FROM "Organisation"
		WHERE orgid = $1
	`

	org, err := scanOrganisation(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organisation %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get organisation: %w", err)
	}

	return org, nil
}

// ListByUserID retrieves every organisation joined by the user
func (r *OrganisationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Organisation, error) {
	query := `
		SELECT o.orgid, o.name, o.description
		FROM "Organisation" o
		JOIN user_organisation uo ON uo.orgid = o.orgid
		WHERE uo.userid = $1
		ORDER BY uo.id
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query organisations: %w", err)
	}
	defer rows.Close()

	orgs := []*models.Organisation{}
	for rows.Next() {
		org := &models.Organisation{}
		var description sql.NullString
		if err := rows.Scan(&org.OrgID, &org.Name, &description); err != nil {
			return nil, fmt.Errorf("failed to scan organisation: %w", err)
		}
		if description.Valid {
			org.Description = &description.String
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organisation rows: %w", err)
	}

	return orgs, nil
}

// GetForMember retrieves an organisation only if the user belongs to it
func (r *OrganisationRepository) GetForMember(ctx context.Context, userID, orgID uuid.UUID) (*models.Organisation, error) {
	query := `
		SELECT o.orgid, o.name, o.description
		FROM "Organisation" o
		JOIN user_organisation uo ON uo.orgid = o.orgid
		WHERE uo.userid = $1 AND o.orgid = $2
		LIMIT 1
	`

	org, err := scanOrganisation(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, userID, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organisation %s for user %s: %w", orgID, userID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get organisation: %w", err)
	}

	return org, nil
}

func scanOrganisation(row *sql.Row) (*models.Organisation, error) {
	org := &models.Organisation{}
	var description sql.NullString

	if err := row.Scan(&org.OrgID, &org.Name, &description); err != nil {
		return nil, err
	}
	if description.Valid {
		org.Description = &description.String
	}
	return org, nil
}
