package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/worker"
	"github.com/kelasku/kelasku-backend/pkg/feed"
)

// stubClassStore serves classes from memory.
type stubClassStore struct {
	classes map[uuid.UUID]*model.Class
	stats   map[uuid.UUID]*model.ClassWithStats
}

func newStubClassStore() *stubClassStore {
	return &stubClassStore{
		classes: make(map[uuid.UUID]*model.Class),
		stats:   make(map[uuid.UUID]*model.ClassWithStats),
	}
}

func (s *stubClassStore) GetByID(_ context.Context, id uuid.UUID) (*model.Class, error) {
	if c, ok := s.classes[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubClassStore) GetWithStats(_ context.Context, id uuid.UUID) (*model.ClassWithStats, error) {
	if c, ok := s.stats[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubClassStore) Search(_ context.Context, term string) ([]model.ClassWithStats, error) {
	var out []model.ClassWithStats
	for _, c := range s.stats {
		out = append(out, *c)
	}
	_ = term
	return out, nil
}

func (s *stubClassStore) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]model.ClassWithStats, error) {
	var out []model.ClassWithStats
	for _, c := range s.stats {
		if c.CreatorID == creatorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubClassStore) Create(_ context.Context, c *model.Class) error {
	c.ID = uuid.New()
	s.classes[c.ID] = c
	return nil
}

func (s *stubClassStore) Update(_ context.Context, c *model.Class) (*model.Class, error) {
	s.classes[c.ID] = c
	return c, nil
}

// stubMemberStore serves memberships from memory and counts insert attempts
// so tests can assert the pre-check short-circuits before any insert.
type stubMemberStore struct {
	members       map[uuid.UUID]*model.ClassMember
	insertCalls   int
	approveFull   bool // Simulate the guarded approve finding the class full.
	insertAsNoRow bool // Simulate the guarded insert finding the class full.
}

func newStubMemberStore() *stubMemberStore {
	return &stubMemberStore{members: make(map[uuid.UUID]*model.ClassMember)}
}

func (s *stubMemberStore) CreatePending(_ context.Context, classID, userID uuid.UUID) (*model.ClassMember, error) {
	s.insertCalls++
	if s.insertAsNoRow {
		return nil, pgx.ErrNoRows
	}
	m := &model.ClassMember{
		ID:      uuid.New(),
		ClassID: classID,
		UserID:  userID,
		Status:  model.MemberStatusPending,
	}
	s.members[m.ID] = m
	return m, nil
}

func (s *stubMemberStore) GetByID(_ context.Context, id uuid.UUID) (*model.ClassMember, error) {
	if m, ok := s.members[id]; ok {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubMemberStore) GetByClassAndUser(_ context.Context, classID, userID uuid.UUID) (*model.ClassMember, error) {
	for _, m := range s.members {
		if m.ClassID == classID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubMemberStore) ListByClass(_ context.Context, classID uuid.UUID) ([]model.ClassMemberView, error) {
	var out []model.ClassMemberView
	for _, m := range s.members {
		if m.ClassID == classID {
			out = append(out, model.ClassMemberView{ClassMember: *m})
		}
	}
	return out, nil
}

func (s *stubMemberStore) ListByUser(_ context.Context, userID uuid.UUID, statuses ...model.MemberStatus) ([]model.UserMembership, error) {
	var out []model.UserMembership
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if m.Status == st {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, model.UserMembership{ClassMember: *m})
	}
	return out, nil
}

func (s *stubMemberStore) Approve(_ context.Context, id uuid.UUID) (*model.ClassMember, error) {
	m, ok := s.members[id]
	if !ok || m.Status != model.MemberStatusPending || s.approveFull {
		return nil, pgx.ErrNoRows
	}
	m.Status = model.MemberStatusApproved
	return m, nil
}

func (s *stubMemberStore) Reject(_ context.Context, id uuid.UUID) (*model.ClassMember, error) {
	m, ok := s.members[id]
	if !ok || m.Status != model.MemberStatusPending {
		return nil, pgx.ErrNoRows
	}
	m.Status = model.MemberStatusRejected
	return m, nil
}

// stubPublisher records published events.
type stubPublisher struct {
	mu     sync.Mutex
	events []feed.Event
}

func (p *stubPublisher) record(kind feed.Kind, table feed.Table, scope string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, feed.Event{Kind: kind, Table: table, Scope: scope})
}

func (p *stubPublisher) PublishInsert(_ context.Context, table feed.Table, scope string, _ interface{}) {
	p.record(feed.KindInsert, table, scope)
}

func (p *stubPublisher) PublishUpdate(_ context.Context, table feed.Table, scope string, _ interface{}) {
	p.record(feed.KindUpdate, table, scope)
}

func (p *stubPublisher) PublishDelete(_ context.Context, table feed.Table, scope string, _ interface{}) {
	p.record(feed.KindDelete, table, scope)
}

// stubNotify records enqueued notification jobs.
type stubNotify struct {
	jobs []worker.NotifyJob
}

func (n *stubNotify) Enqueue(_ context.Context, job worker.NotifyJob) error {
	n.jobs = append(n.jobs, job)
	return nil
}
