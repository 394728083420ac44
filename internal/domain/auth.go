package domain

import "time"

// Role gates which operations a token holder may invoke.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleEditor:
		return true
	}
	return false
}

// Token represents issued session token metadata.
type Token struct {
	Value     string
	SubjectID int64
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
