package services

import (
	"github.com/upb/org-auth/models"
)

// RegisterRequest is the registration payload. Phone is optional.
type RegisterRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required"`
	Password  string  `json:"password" validate:"required"`
	Phone     *string `json:"phone"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateOrganisationRequest is the organisation creation payload
type CreateOrganisationRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// AddMemberRequest names the user to add to an organisation
type AddMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// AuthResult is returned by successful registration and login
type AuthResult struct {
	AccessToken string            `json:"accessToken"`
	User        models.PublicUser `json:"user"`
}
