package model

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a profile's application role. It is chosen once after the
// first login and treated as write-once afterwards.
type Role string

const (
	RoleCreator Role = "creator"
	RoleMember  Role = "member"
)

// Profile represents a user account.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// UpdateProfileRequest is the payload for updating a profile.
// Role is accepted only while the profile has no role yet.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"omitempty,min=2,max=100"`
	Role     Role   `json:"role" binding:"omitempty,oneof=creator member"`
}
