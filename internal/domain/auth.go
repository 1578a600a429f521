package domain

// Identity is the subset of a user carried inside a session token.
type Identity struct {
	ID    string
	Email string
	Role  Role
	Name  string
}

// IdentityOf extracts the token identity of a user.
func IdentityOf(u *User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}
