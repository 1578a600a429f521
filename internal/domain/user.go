package domain

import "time"

// Role is the access level baked into a session token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is a portal account. Self-registered users are always customers.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Name         string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
