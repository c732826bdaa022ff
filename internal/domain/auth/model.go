package auth

import (
	"tienda/internal/core/entity"
)

// User is an account allowed to post documents.
type User struct {
	entity.Base

	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	IsAdmin      bool   `db:"is_admin" json:"isAdmin"`
}

// NewUser creates a user with a pre-hashed password.
func NewUser(username, passwordHash string, isAdmin bool) *User {
	return &User{
		Base:         entity.NewBase(),
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
}
