package model

import (
	"time"

	"github.com/google/uuid"
)

// Class represents a class owned by one creator.
type Class struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Prodi       string    `json:"prodi"`
	CreatorID   uuid.UUID `json:"creator_id"`
	MemberLimit int       `json:"member_limit"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClassWithStats is a class row from the classes_with_stats view, carrying
// denormalized membership counts.
type ClassWithStats struct {
	Class
	CreatorName     string `json:"creator_name"`
	CurrentMembers  int    `json:"current_members"`
	ApprovedMembers int    `json:"approved_members"`
	PendingMembers  int    `json:"pending_members"`
	RemainingQuota  int    `json:"remaining_quota"`
	IsFull          bool   `json:"is_full"`
}

// CreateClassRequest is the payload for creating a class. The member limit is
// fixed at creation; there is no update path for it.
type CreateClassRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	Description string `json:"description" binding:"max=500"`
	Prodi       string `json:"prodi" binding:"omitempty,max=100"`
	MemberLimit int    `json:"member_limit" binding:"omitempty,min=2,max=200"`
}

// UpdateClassRequest is the payload for updating class settings.
type UpdateClassRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2,max=50"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Prodi       string `json:"prodi" binding:"omitempty,max=100"`
}
