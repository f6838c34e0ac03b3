package dto

import (
	"time"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// AuthResponse standard response for the login endpoint.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// CreateUserRequest payload for new accounts.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=100,username"`
	FullName    string `json:"fullName" validate:"max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
	Password    string `json:"password" validate:"required,min=6,max=200"`
	Role        string `json:"role" validate:"required,role"`
}

// UpdateUserRequest is a partial account update.
type UpdateUserRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=32"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=200"`
	Role        *string `json:"role" validate:"omitempty,role"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	FullName     string     `json:"fullName"`
	Username     string     `json:"username"`
	PhoneNumber  string     `json:"phoneNumber"`
	Role         string     `json:"role"`
	LastActivity *time.Time `json:"lastActivity"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.DisplayName(),
		FullName:     u.FullName,
		Username:     u.Username,
		PhoneNumber:  u.PhoneNumber,
		Role:         string(u.Role),
		LastActivity: u.LastActivity,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
