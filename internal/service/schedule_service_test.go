package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/rs/zerolog"
)

// stubScheduleStore serves schedules from memory.
type stubScheduleStore struct {
	schedules map[uuid.UUID]*model.Schedule
}

func newStubScheduleStore() *stubScheduleStore {
	return &stubScheduleStore{schedules: make(map[uuid.UUID]*model.Schedule)}
}

func (s *stubScheduleStore) GetByID(_ context.Context, id uuid.UUID) (*model.Schedule, error) {
	if sc, ok := s.schedules[id]; ok {
		return sc, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubScheduleStore) ListByClass(_ context.Context, classID uuid.UUID) ([]model.ScheduleView, error) {
	var out []model.ScheduleView
	for _, sc := range s.schedules {
		if sc.ClassID == classID {
			out = append(out, model.ScheduleView{Schedule: *sc})
		}
	}
	return out, nil
}

func (s *stubScheduleStore) Create(_ context.Context, sc *model.Schedule) error {
	sc.ID = uuid.New()
	s.schedules[sc.ID] = sc
	return nil
}

func (s *stubScheduleStore) Update(_ context.Context, sc *model.Schedule) (*model.Schedule, error) {
	if _, ok := s.schedules[sc.ID]; !ok {
		return nil, pgx.ErrNoRows
	}
	s.schedules[sc.ID] = sc
	return sc, nil
}

func (s *stubScheduleStore) Delete(_ context.Context, id uuid.UUID) (*model.Schedule, error) {
	sc, ok := s.schedules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	delete(s.schedules, id)
	return sc, nil
}

func newScheduleService(classes *stubClassStore, members *stubMemberStore, schedules *stubScheduleStore) (*ScheduleService, *stubPublisher, *stubNotify) {
	publisher := &stubPublisher{}
	notify := &stubNotify{}
	svc := NewScheduleService(schedules, classes, members, publisher, notify, zerolog.Nop())
	return svc, publisher, notify
}

func TestCreateScheduleRequiresCreator(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	schedules := newStubScheduleStore()
	classID := seedClass(classes, uuid.New(), "R.1.H", 30, 0)

	svc, publisher, _ := newScheduleService(classes, members, schedules)

	req := model.CreateScheduleRequest{
		Title: "PR Matematika",
		Date:  "2024-09-14",
		Time:  "10:00",
		Type:  model.ScheduleTypeHomework,
	}
	_, err := svc.Create(context.Background(), classID, uuid.New(), req)
	if !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("expected forbidden for non-creator, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("forbidden create must not publish, got %+v", publisher.events)
	}
}

func TestCreateSchedulePublishesInsert(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	schedules := newStubScheduleStore()
	creatorID := uuid.New()
	classID := seedClass(classes, creatorID, "R.1.H", 30, 0)

	svc, publisher, _ := newScheduleService(classes, members, schedules)

	req := model.CreateScheduleRequest{
		Title: "PR Matematika",
		Date:  "2024-09-14",
		Time:  "10:00",
		Type:  model.ScheduleTypeHomework,
	}
	created, err := svc.Create(context.Background(), classID, creatorID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected one event, got %d", len(publisher.events))
	}
	ev := publisher.events[0]
	if ev.Kind != feed.KindInsert || ev.Table != feed.TableSchedules {
		t.Fatalf("unexpected event %+v", ev)
	}
	if want := feed.ScheduleScope(classID.String()); ev.Scope != want {
		t.Fatalf("expected scope %s, got %s", want, ev.Scope)
	}
}

func TestDeleteSchedulePublishesOldRow(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	schedules := newStubScheduleStore()
	creatorID := uuid.New()
	classID := seedClass(classes, creatorID, "R.1.H", 30, 0)

	svc, publisher, _ := newScheduleService(classes, members, schedules)

	created, err := svc.Create(context.Background(), classID, creatorID, model.CreateScheduleRequest{
		Title: "Ujian Fisika", Date: "2024-09-15", Time: "08:00", Type: model.ScheduleTypeExam,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, creatorID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	last := publisher.events[len(publisher.events)-1]
	if last.Kind != feed.KindDelete {
		t.Fatalf("expected delete event, got %s", last.Kind)
	}
}

func TestListByClassForbiddenForOutsider(t *testing.T) {
	classes := newStubClassStore()
	members := newStubMemberStore()
	schedules := newStubScheduleStore()
	classID := seedClass(classes, uuid.New(), "R.1.H", 30, 0)

	svc, _, _ := newScheduleService(classes, members, schedules)

	_, err := svc.ListByClass(context.Background(), classID, uuid.New())
	if !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
}
