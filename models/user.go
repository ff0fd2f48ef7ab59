package models

import (
	"github.com/google/uuid"
)

// User represents a registered account. Password holds the bcrypt hash, never plaintext.
type User struct {
	UserID    uuid.UUID `json:"userId" db:"userid"`
	FirstName string    `json:"firstName" db:"firstname"`
	LastName  string    `json:"lastName" db:"lastname"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Phone     *string   `json:"phone" db:"phone"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return `"User"`
}

// NewUser creates a new User with a fresh id. passwordHash must already be hashed.
func NewUser(firstName, lastName, email, passwordHash string, phone *string) *User {
	return &User{
		UserID:    uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  passwordHash,
		Phone:     phone,
	}
}

// PublicUser is the externally visible projection of a User
type PublicUser struct {
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
}

// Public returns the projection that omits the password hash
func (u *User) Public() PublicUser {
	return PublicUser{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}
