package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates the notification categories.
type NotificationType string

const (
	NotificationJoinRequest    NotificationType = "join_request"
	NotificationJoinApproved   NotificationType = "join_approved"
	NotificationJoinRejected   NotificationType = "join_rejected"
	NotificationScheduleAdded  NotificationType = "schedule_added"
	NotificationScheduleChange NotificationType = "schedule_changed"
)

// Notification represents a per-user notification row.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
