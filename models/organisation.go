package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Organisation represents a named group users can belong to
type Organisation struct {
	OrgID       uuid.UUID `json:"orgId" db:"orgid"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
}

// TableName returns the table name for the Organisation model
func (Organisation) TableName() string {
	return `"Organisation"`
}

// NewOrganisation creates a new Organisation with a fresh id
func NewOrganisation(name string, description *string) *Organisation {
	return &Organisation{
		OrgID:       uuid.New(),
		Name:        name,
		Description: description,
	}
}

// DefaultOrganisationName is the name given to the organisation created at registration
func DefaultOrganisationName(firstName string) string {
	return fmt.Sprintf("%s's Organisation", firstName)
}
