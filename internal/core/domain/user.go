package domain

import "time"

// Role determines which actions an authenticated actor may perform.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleUser      Role = "USER"
	RoleAnonymous Role = "ANONYMOUS"
)

// ValidRole reports whether r is one of the recognized roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser, RoleAnonymous:
		return true
	}
	return false
}

// User models one registered account. PasswordHash is never serialized;
// every API response carries the projection with the hash stripped.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
