package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// Role names known to the admin surface.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
)

// Roles lists the seeded role names.
var Roles = []string{RoleAdministrator, RoleEditor, RoleAuthor} //nolint:gochecknoglobals

// User is an account that can author posts and, with the right role, log into the admin.
type User struct {
	ID          uint64 `gorm:"primaryKey"`
	Active      bool
	Username    string `gorm:"unique;size:100;not null"`
	Email       string `gorm:"size:255;not null"`
	DisplayName string `gorm:"size:250"`
	// Password is the Argon2id hash.
	Password string `gorm:"size:255"`
	// Roles keep the order they were assigned in.
	Roles     []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRole assigns a role name to a user at a position.
type UserRole struct {
	UserID   uint64 `gorm:"primaryKey"`
	Position int    `gorm:"primaryKey"`
	Role     string `gorm:"size:100;not null"`
}

// RoleNames returns the user's roles in assignment order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}

	return names
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}

	return false
}

// HashPassword hashes a plaintext password using Argon2id with default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares password against the stored hash.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user", u.Username).Msg("failed to verify password")

		return false
	}

	return match
}
