package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleType enumerates the kinds of schedule entries.
type ScheduleType string

const (
	ScheduleTypeHomework ScheduleType = "homework"
	ScheduleTypeExam     ScheduleType = "exam"
)

// Schedule represents a dated, timed entry (homework or exam) within a class.
// Date is "YYYY-MM-DD" and Time is "HH:MM"; both sort lexicographically in
// chronological order.
type Schedule struct {
	ID          uuid.UUID    `json:"id"`
	ClassID     uuid.UUID    `json:"class_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Type        ScheduleType `json:"type"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ScheduleView is a schedule row from schedules_view, joined with the creator
// profile.
type ScheduleView struct {
	Schedule
	CreatorName string `json:"creator_name"`
}

// CreateScheduleRequest is the payload for creating a schedule entry.
type CreateScheduleRequest struct {
	Title       string       `json:"title" binding:"required,min=2,max=100"`
	Description string       `json:"description" binding:"max=500"`
	Date        string       `json:"date" binding:"required,datetime=2006-01-02"`
	Time        string       `json:"time" binding:"required,datetime=15:04"`
	Type        ScheduleType `json:"type" binding:"required,oneof=homework exam"`
}

// UpdateScheduleRequest is the payload for updating a schedule entry.
type UpdateScheduleRequest struct {
	Title       string       `json:"title" binding:"omitempty,min=2,max=100"`
	Description string       `json:"description" binding:"omitempty,max=500"`
	Date        string       `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time        string       `json:"time" binding:"omitempty,datetime=15:04"`
	Type        ScheduleType `json:"type" binding:"omitempty,oneof=homework exam"`
}
