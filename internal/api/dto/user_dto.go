package dto

import (
	"time"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// UserRegisterRequest payload for new customers.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the identity echoed by auth endpoints.
type UserSummary struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Name  string      `json:"name"`
}

// UserResponse is the admin view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	CreatedAt time.Time   `json:"created_at"`
}

// RegisterResponse for POST /api/auth/register.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// AuthResponse standard response for login.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

// NewUserSummary maps a user to its summary.
func NewUserSummary(u domain.User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// NewUserResponse maps a user for admin listings.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.Name,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
