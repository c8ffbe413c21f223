package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/worker"
	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/rs/zerolog"
)

// ScheduleService handles schedule entries. Mutations are creator-only and
// publish change events on the class's schedule feed.
type ScheduleService struct {
	schedules ScheduleStore
	classes   ClassStore
	members   MemberStore
	publisher EventPublisher
	notify    NotifyEnqueuer
	log       zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(schedules ScheduleStore, classes ClassStore, members MemberStore, publisher EventPublisher, notify NotifyEnqueuer, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		classes:   classes,
		members:   members,
		publisher: publisher,
		notify:    notify,
		log:       log.With().Str("component", "schedule_service").Logger(),
	}
}

// ListByClass retrieves a class's schedules ordered by date then time.
// Visible to the creator and approved members.
func (s *ScheduleService) ListByClass(ctx context.Context, classID, viewerID uuid.UUID) ([]model.ScheduleView, error) {
	if err := s.requireClassAccess(ctx, classID, viewerID); err != nil {
		return nil, err
	}
	schedules, err := s.schedules.ListByClass(ctx, classID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return schedules, nil
}

// Create adds a schedule entry and notifies approved members.
func (s *ScheduleService) Create(ctx context.Context, classID, actorID uuid.UUID, req model.CreateScheduleRequest) (*model.Schedule, error) {
	class, err := s.requireCreator(ctx, classID, actorID)
	if err != nil {
		return nil, err
	}

	schedule := &model.Schedule{
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		CreatedBy:   actorID,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, apperror.Classify(err)
	}

	s.publisher.PublishInsert(ctx, feed.TableSchedules, feed.ScheduleScope(classID.String()), schedule)
	s.notifyMembers(ctx, class, model.NotificationScheduleAdded, "Jadwal baru",
		fmt.Sprintf("Jadwal baru di kelas %s: %s (%s %s).", class.Name, schedule.Title, schedule.Date, schedule.Time))

	return schedule, nil
}

// Update modifies a schedule entry.
func (s *ScheduleService) Update(ctx context.Context, scheduleID, actorID uuid.UUID, req model.UpdateScheduleRequest) (*model.Schedule, error) {
	current, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	class, err := s.requireCreator(ctx, current.ClassID, actorID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		current.Title = req.Title
	}
	if req.Description != "" {
		current.Description = req.Description
	}
	if req.Date != "" {
		current.Date = req.Date
	}
	if req.Time != "" {
		current.Time = req.Time
	}
	if req.Type != "" {
		current.Type = req.Type
	}

	updated, err := s.schedules.Update(ctx, current)
	if err != nil {
		return nil, apperror.Classify(err)
	}

	s.publisher.PublishUpdate(ctx, feed.TableSchedules, feed.ScheduleScope(updated.ClassID.String()), updated)
	s.notifyMembers(ctx, class, model.NotificationScheduleChange, "Jadwal diubah",
		fmt.Sprintf("Jadwal %s di kelas %s telah diubah.", updated.Title, class.Name))

	return updated, nil
}

// Delete removes a schedule entry and publishes the old row image.
func (s *ScheduleService) Delete(ctx context.Context, scheduleID, actorID uuid.UUID) error {
	current, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return apperror.Classify(err)
	}
	if _, err := s.requireCreator(ctx, current.ClassID, actorID); err != nil {
		return err
	}

	deleted, err := s.schedules.Delete(ctx, scheduleID)
	if err != nil {
		return apperror.Classify(err)
	}

	s.publisher.PublishDelete(ctx, feed.TableSchedules, feed.ScheduleScope(deleted.ClassID.String()), deleted)
	return nil
}

// requireCreator loads the class and checks the actor owns it.
func (s *ScheduleService) requireCreator(ctx context.Context, classID, actorID uuid.UUID) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	if class.CreatorID != actorID {
		return nil, apperror.New(apperror.KindForbidden, "hanya pembuat kelas yang dapat mengelola jadwal")
	}
	return class, nil
}

// requireClassAccess allows the class creator and approved members.
func (s *ScheduleService) requireClassAccess(ctx context.Context, classID, userID uuid.UUID) error {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return apperror.Classify(err)
	}
	if class.CreatorID == userID {
		return nil
	}

	member, err := s.members.GetByClassAndUser(ctx, classID, userID)
	if err != nil {
		if apperror.Is(apperror.Classify(err), apperror.KindNotFound) {
			return apperror.New(apperror.KindForbidden, "anda bukan anggota kelas ini")
		}
		return apperror.Classify(err)
	}
	if member.Status != model.MemberStatusApproved {
		return apperror.New(apperror.KindForbidden, "anda bukan anggota kelas ini")
	}
	return nil
}

// notifyMembers fans a notification out to the class's approved members,
// excluding the creator acting on their own class.
func (s *ScheduleService) notifyMembers(ctx context.Context, class *model.Class, notifType model.NotificationType, title, message string) {
	members, err := s.members.ListByClass(ctx, class.ID)
	if err != nil {
		s.log.Error().Err(err).Str("class_id", class.ID.String()).Msg("List members for notify failed")
		return
	}

	var targets []uuid.UUID
	for _, m := range members {
		if m.Status == model.MemberStatusApproved && m.UserID != class.CreatorID {
			targets = append(targets, m.UserID)
		}
	}

	if err := s.notify.Enqueue(ctx, worker.NotifyJob{
		UserIDs: targets,
		Type:    notifType,
		Title:   title,
		Message: message,
	}); err != nil {
		s.log.Error().Err(err).Msg("Enqueue schedule notification failed")
	}
}
