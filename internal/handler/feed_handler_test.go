package handler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/service"
	"github.com/kelasku/kelasku-backend/internal/worker"
	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/rs/zerolog"
)

// fakeClassStore serves one class.
type fakeClassStore struct {
	class *model.Class
}

func (f *fakeClassStore) GetByID(_ context.Context, id uuid.UUID) (*model.Class, error) {
	if f.class != nil && f.class.ID == id {
		return f.class, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeClassStore) GetWithStats(context.Context, uuid.UUID) (*model.ClassWithStats, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeClassStore) Search(context.Context, string) ([]model.ClassWithStats, error) {
	return nil, nil
}

func (f *fakeClassStore) ListByCreator(context.Context, uuid.UUID) ([]model.ClassWithStats, error) {
	return nil, nil
}

func (f *fakeClassStore) Create(context.Context, *model.Class) error { return nil }

func (f *fakeClassStore) Update(_ context.Context, c *model.Class) (*model.Class, error) {
	return c, nil
}

// fakeMemberStore serves one membership.
type fakeMemberStore struct {
	member *model.ClassMember
}

func (f *fakeMemberStore) CreatePending(context.Context, uuid.UUID, uuid.UUID) (*model.ClassMember, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeMemberStore) GetByID(context.Context, uuid.UUID) (*model.ClassMember, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeMemberStore) GetByClassAndUser(_ context.Context, classID, userID uuid.UUID) (*model.ClassMember, error) {
	if f.member != nil && f.member.ClassID == classID && f.member.UserID == userID {
		return f.member, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMemberStore) ListByClass(context.Context, uuid.UUID) ([]model.ClassMemberView, error) {
	return nil, nil
}

func (f *fakeMemberStore) ListByUser(context.Context, uuid.UUID, ...model.MemberStatus) ([]model.UserMembership, error) {
	return nil, nil
}

func (f *fakeMemberStore) Approve(context.Context, uuid.UUID) (*model.ClassMember, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeMemberStore) Reject(context.Context, uuid.UUID) (*model.ClassMember, error) {
	return nil, pgx.ErrNoRows
}

type noopPublisher struct{}

func (noopPublisher) PublishInsert(context.Context, feed.Table, string, interface{}) {}
func (noopPublisher) PublishUpdate(context.Context, feed.Table, string, interface{}) {}
func (noopPublisher) PublishDelete(context.Context, feed.Table, string, interface{}) {}

type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue(context.Context, worker.NotifyJob) error { return nil }

func newTestFeedHandler(classes *fakeClassStore, members *fakeMemberStore) *FeedHandler {
	memberService := service.NewMemberService(members, classes, noopPublisher{}, noopEnqueuer{}, zerolog.Nop())
	return NewFeedHandler(nil, memberService, zerolog.Nop(), nil)
}

func TestAuthorizeScopeClassAccess(t *testing.T) {
	creatorID := uuid.New()
	approvedID := uuid.New()
	pendingID := uuid.New()
	classID := uuid.New()

	classes := &fakeClassStore{class: &model.Class{ID: classID, CreatorID: creatorID}}

	tests := []struct {
		name    string
		userID  uuid.UUID
		member  *model.ClassMember
		scope   string
		wantErr bool
	}{
		{
			name:   "creator reads schedule scope",
			userID: creatorID,
			scope:  feed.ScheduleScope(classID.String()),
		},
		{
			name:   "approved member reads member scope",
			userID: approvedID,
			member: &model.ClassMember{ClassID: classID, UserID: approvedID, Status: model.MemberStatusApproved},
			scope:  feed.MemberScope(classID.String()),
		},
		{
			name:    "pending member denied",
			userID:  pendingID,
			member:  &model.ClassMember{ClassID: classID, UserID: pendingID, Status: model.MemberStatusPending},
			scope:   feed.ScheduleScope(classID.String()),
			wantErr: true,
		},
		{
			name:    "outsider denied",
			userID:  uuid.New(),
			scope:   feed.ScheduleScope(classID.String()),
			wantErr: true,
		},
		{
			name:    "unknown class denied",
			userID:  creatorID,
			scope:   feed.ScheduleScope(uuid.New().String()),
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestFeedHandler(classes, &fakeMemberStore{member: tc.member})
			err := h.authorizeScope(context.Background(), tc.userID, tc.scope)
			if tc.wantErr && err == nil {
				t.Fatal("expected authorization failure")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuthorizeScopeNotificationsSelfOnly(t *testing.T) {
	h := newTestFeedHandler(&fakeClassStore{}, &fakeMemberStore{})
	userID := uuid.New()

	if err := h.authorizeScope(context.Background(), userID, feed.NotificationScope(userID.String())); err != nil {
		t.Fatalf("own notification scope must be allowed: %v", err)
	}
	if err := h.authorizeScope(context.Background(), userID, feed.NotificationScope(uuid.New().String())); err == nil {
		t.Fatal("foreign notification scope must be denied")
	}
}

func TestAuthorizeScopeMalformed(t *testing.T) {
	h := newTestFeedHandler(&fakeClassStore{}, &fakeMemberStore{})
	userID := uuid.New()

	for _, scope := range []string{
		"",
		"schedules",
		"schedules:class",
		"schedules:user:" + uuid.New().String(),
		"schedules:class:not-a-uuid",
		"profiles:class:" + uuid.New().String(),
	} {
		if err := h.authorizeScope(context.Background(), userID, scope); err == nil {
			t.Errorf("scope %q must be rejected", scope)
		}
	}
}
