package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/rs/zerolog"
)

func seedClass(classes *stubClassStore, creatorID uuid.UUID, name string, limit, approved int) uuid.UUID {
	id := uuid.New()
	class := &model.Class{
		ID:          id,
		Name:        name,
		CreatorID:   creatorID,
		MemberLimit: limit,
		IsActive:    true,
	}
	classes.classes[id] = class
	classes.stats[id] = &model.ClassWithStats{
		Class:           *class,
		ApprovedMembers: approved,
		CurrentMembers:  approved,
		RemainingQuota:  limit - approved,
		IsFull:          approved >= limit,
	}
	return id
}

func newMemberService(classes *stubClassStore, members *stubMemberStore) (*MemberService, *stubPublisher, *stubNotify) {
	publisher := &stubPublisher{}
	notify := &stubNotify{}
	svc := NewMemberService(members, classes, publisher, notify, zerolog.Nop())
	return svc, publisher, notify
}

func TestJoinFullClassRejectedBeforeInsert(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	creatorID := uuid.New()
	classID := seedClass(classes, creatorID, "R.1.H", 30, 30)

	svc, _, _ := newMemberService(classes, members)

	_, err := svc.JoinClass(context.Background(), classID, uuid.New())
	if !apperror.Is(err, apperror.KindCapacity) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if members.insertCalls != 0 {
		t.Fatalf("pre-check must reject before any insert, got %d insert calls", members.insertCalls)
	}
	if got := apperror.Translate(err); got != "Kelas sudah mencapai batas maksimal anggota" {
		t.Fatalf("unexpected translated message %q", got)
	}
}

func TestJoinFlowCreatesPendingAndNotifiesCreator(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	creatorID := uuid.New()
	classID := seedClass(classes, creatorID, "R.1.H", 30, 5)

	svc, publisher, notify := newMemberService(classes, members)

	userID := uuid.New()
	member, err := svc.JoinClass(context.Background(), classID, userID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if member.Status != model.MemberStatusPending {
		t.Fatalf("expected pending status, got %s", member.Status)
	}

	status, err := svc.GetMembershipStatus(context.Background(), classID, userID)
	if err != nil {
		t.Fatalf("membership status: %v", err)
	}
	if status.Status != model.MemberStatusPending {
		t.Fatalf("expected pending membership visible, got %s", status.Status)
	}

	if len(publisher.events) != 1 || publisher.events[0].Kind != feed.KindInsert {
		t.Fatalf("expected one insert event, got %+v", publisher.events)
	}
	if want := feed.MemberScope(classID.String()); publisher.events[0].Scope != want {
		t.Fatalf("expected scope %s, got %s", want, publisher.events[0].Scope)
	}

	if len(notify.jobs) != 1 || len(notify.jobs[0].UserIDs) != 1 || notify.jobs[0].UserIDs[0] != creatorID {
		t.Fatalf("expected creator notification, got %+v", notify.jobs)
	}
}

func TestJoinRaceLostAtInsertReturnsCapacity(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	classID := seedClass(classes, uuid.New(), "R.1.H", 30, 29)
	members.insertAsNoRow = true // Another join filled the last slot first.

	svc, _, _ := newMemberService(classes, members)

	_, err := svc.JoinClass(context.Background(), classID, uuid.New())
	if !apperror.Is(err, apperror.KindCapacity) {
		t.Fatalf("expected capacity error from guarded insert, got %v", err)
	}
}

func TestUpdateStatusRequiresCreator(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	creatorID := uuid.New()
	classID := seedClass(classes, creatorID, "R.1.H", 30, 0)

	svc, _, _ := newMemberService(classes, members)

	member, err := svc.JoinClass(context.Background(), classID, uuid.New())
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), member.ID, uuid.New(), model.MemberStatusApproved)
	if !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("expected forbidden for non-creator, got %v", err)
	}
}

func TestApproveSetsTerminalState(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	creatorID := uuid.New()
	classID := seedClass(classes, creatorID, "R.1.H", 30, 0)

	svc, publisher, _ := newMemberService(classes, members)

	member, err := svc.JoinClass(context.Background(), classID, uuid.New())
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	approved, err := svc.UpdateStatus(context.Background(), member.ID, creatorID, model.MemberStatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.MemberStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	// Terminal: a second transition must fail as no-longer-pending.
	_, err = svc.UpdateStatus(context.Background(), member.ID, creatorID, model.MemberStatusRejected)
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error for terminal member, got %v", err)
	}

	var updates int
	for _, ev := range publisher.events {
		if ev.Kind == feed.KindUpdate {
			updates++
		}
	}
	if updates != 1 {
		t.Fatalf("expected exactly one update event, got %d", updates)
	}
}

func TestApproveOverCapacityRejected(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	creatorID := uuid.New()
	classID := seedClass(classes, creatorID, "R.1.H", 30, 0)

	svc, _, _ := newMemberService(classes, members)

	member, err := svc.JoinClass(context.Background(), classID, uuid.New())
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	members.approveFull = true
	_, err = svc.UpdateStatus(context.Background(), member.ID, creatorID, model.MemberStatusApproved)
	if !apperror.Is(err, apperror.KindCapacity) {
		t.Fatalf("expected capacity error when approve guard fails, got %v", err)
	}
}
