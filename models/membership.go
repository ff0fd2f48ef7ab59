package models

import "github.com/google/uuid"

// Membership links a user to an organisation. Duplicate rows are allowed.
type Membership struct {
	UserID uuid.UUID `json:"userId" db:"userid"`
	OrgID  uuid.UUID `json:"orgId" db:"orgid"`
}

// NewMembership pairs a user with an organisation
func NewMembership(userID, orgID uuid.UUID) *Membership {
	return &Membership{UserID: userID, OrgID: orgID}
}

// TableName returns the table name for the Membership model
func (Membership) TableName() string {
	return "user_organisation"
}
