package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus enumerates the membership lifecycle. Approved and rejected are
// terminal; the only transitions are pending→approved and pending→rejected.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
	MemberStatusRejected MemberStatus = "rejected"
)

// ClassMember represents a user's membership in a class. At most one row
// exists per (class, user) pair.
type ClassMember struct {
	ID        uuid.UUID    `json:"id"`
	ClassID   uuid.UUID    `json:"class_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Status    MemberStatus `json:"status"`
	JoinedAt  *time.Time   `json:"joined_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ClassMemberView is a membership row from class_members_view, joined with
// the member's profile.
type ClassMemberView struct {
	ClassMember
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// UserMembership is a membership joined with its class, used for a user's
// class list.
type UserMembership struct {
	ClassMember
	Class Class `json:"class"`
}

// JoinClassRequest is the payload for requesting to join a class.
type JoinClassRequest struct {
	ClassID uuid.UUID `json:"class_id" binding:"required"`
}

// UpdateMemberStatusRequest is the payload for approving or rejecting a
// pending membership.
type UpdateMemberStatusRequest struct {
	Status MemberStatus `json:"status" binding:"required,oneof=approved rejected"`
}
