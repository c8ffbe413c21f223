package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/worker"
	"github.com/kelasku/kelasku-backend/pkg/feed"
)

// EventPublisher emits change events onto the feed after a mutation commits.
// Implemented by realtime.Publisher; publishing never fails the mutation.
type EventPublisher interface {
	PublishInsert(ctx context.Context, table feed.Table, scope string, row interface{})
	PublishUpdate(ctx context.Context, table feed.Table, scope string, row interface{})
	PublishDelete(ctx context.Context, table feed.Table, scope string, old interface{})
}

// NotifyEnqueuer queues notification fan-out jobs for the background worker.
type NotifyEnqueuer interface {
	Enqueue(ctx context.Context, job worker.NotifyJob) error
}

// ClassStore is the class data access the services depend on.
type ClassStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
	GetWithStats(ctx context.Context, id uuid.UUID) (*model.ClassWithStats, error)
	Search(ctx context.Context, term string) ([]model.ClassWithStats, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.ClassWithStats, error)
	Create(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) (*model.Class, error)
}

// MemberStore is the membership data access the services depend on.
type MemberStore interface {
	CreatePending(ctx context.Context, classID, userID uuid.UUID) (*model.ClassMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClassMember, error)
	GetByClassAndUser(ctx context.Context, classID, userID uuid.UUID) (*model.ClassMember, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]model.ClassMemberView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, statuses ...model.MemberStatus) ([]model.UserMembership, error)
	Approve(ctx context.Context, id uuid.UUID) (*model.ClassMember, error)
	Reject(ctx context.Context, id uuid.UUID) (*model.ClassMember, error)
}

// ScheduleStore is the schedule data access the services depend on.
type ScheduleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]model.ScheduleView, error)
	Create(ctx context.Context, s *model.Schedule) error
	Update(ctx context.Context, s *model.Schedule) (*model.Schedule, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
}

// NotificationStore is the notification data access the services depend on.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ProfileStore is the profile data access the services depend on.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, id uuid.UUID, fullName string, role model.Role) (*model.Profile, error)
}
