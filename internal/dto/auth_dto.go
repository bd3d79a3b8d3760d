package dto

import (
	"time"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// LoginRequest carries credentials for the local credential table.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed token plus the authenticated profile.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserCreateRequest captures a new account. StudentID is required for
// student accounts so their grades can be linked.
type UserCreateRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
	FullName  string `json:"full_name" validate:"required,max=255"`
	Role      string `json:"role" validate:"required,oneof=teacher student"`
	StudentID string `json:"student_id" validate:"required_if=Role student,omitempty,max=32"`
}

// UserResponse serializes an account without its credential hash.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	StudentID string    `json:"student_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a user model onto the response shape.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		StudentID: user.StudentID,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}
