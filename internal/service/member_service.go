package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/worker"
	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/rs/zerolog"
)

// MemberService handles the membership lifecycle: join requests, approval,
// and rejection. Pending is the only non-terminal status.
type MemberService struct {
	members   MemberStore
	classes   ClassStore
	publisher EventPublisher
	notify    NotifyEnqueuer
	log       zerolog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(members MemberStore, classes ClassStore, publisher EventPublisher, notify NotifyEnqueuer, log zerolog.Logger) *MemberService {
	return &MemberService{
		members:   members,
		classes:   classes,
		publisher: publisher,
		notify:    notify,
		log:       log.With().Str("component", "member_service").Logger(),
	}
}

// JoinClass creates a pending membership. The capacity pre-check gives a
// friendly error before any insert; the insert itself re-checks capacity
// atomically, so concurrent joins cannot overshoot the limit.
func (s *MemberService) JoinClass(ctx context.Context, classID, userID uuid.UUID) (*model.ClassMember, error) {
	stats, err := s.classes.GetWithStats(ctx, classID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	if stats.IsFull {
		return nil, apperror.New(apperror.KindCapacity,
			fmt.Sprintf("Kelas sudah penuh. Batas maksimal %d anggota.", stats.MemberLimit))
	}

	member, err := s.members.CreatePending(ctx, classID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The guarded insert found the class full after all.
			return nil, apperror.New(apperror.KindCapacity,
				fmt.Sprintf("Kelas sudah penuh. Batas maksimal %d anggota.", stats.MemberLimit))
		}
		return nil, apperror.Classify(err)
	}

	s.publisher.PublishInsert(ctx, feed.TableClassMembers, feed.MemberScope(classID.String()), member)

	if err := s.notify.Enqueue(ctx, worker.NotifyJob{
		UserIDs: []uuid.UUID{stats.CreatorID},
		Type:    model.NotificationJoinRequest,
		Title:   "Permintaan bergabung baru",
		Message: fmt.Sprintf("Ada permintaan bergabung baru di kelas %s.", stats.Name),
	}); err != nil {
		s.log.Error().Err(err).Msg("Enqueue join notification failed")
	}

	return member, nil
}

// UpdateStatus approves or rejects a pending membership. Only the class
// creator may act; both outcomes are terminal.
func (s *MemberService) UpdateStatus(ctx context.Context, memberID, actorID uuid.UUID, status model.MemberStatus) (*model.ClassMember, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, apperror.Classify(err)
	}

	class, err := s.classes.GetByID(ctx, member.ClassID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	if class.CreatorID != actorID {
		return nil, apperror.New(apperror.KindForbidden, "hanya pembuat kelas yang dapat mengelola anggota")
	}

	var updated *model.ClassMember
	switch status {
	case model.MemberStatusApproved:
		updated, err = s.members.Approve(ctx, memberID)
	case model.MemberStatusRejected:
		updated, err = s.members.Reject(ctx, memberID)
	default:
		return nil, apperror.New(apperror.KindValidation, "status tidak valid")
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if member.Status != model.MemberStatusPending {
				return nil, apperror.New(apperror.KindValidation, "status anggota sudah tidak dapat diubah")
			}
			return nil, apperror.New(apperror.KindCapacity,
				fmt.Sprintf("Kelas sudah penuh. Batas maksimal %d anggota.", class.MemberLimit))
		}
		return nil, apperror.Classify(err)
	}

	s.publisher.PublishUpdate(ctx, feed.TableClassMembers, feed.MemberScope(member.ClassID.String()), updated)

	notifType := model.NotificationJoinApproved
	notifTitle := "Permintaan bergabung disetujui"
	notifMessage := fmt.Sprintf("Anda telah diterima di kelas %s.", class.Name)
	if status == model.MemberStatusRejected {
		notifType = model.NotificationJoinRejected
		notifTitle = "Permintaan bergabung ditolak"
		notifMessage = fmt.Sprintf("Permintaan bergabung ke kelas %s ditolak.", class.Name)
	}
	if err := s.notify.Enqueue(ctx, worker.NotifyJob{
		UserIDs: []uuid.UUID{member.UserID},
		Type:    notifType,
		Title:   notifTitle,
		Message: notifMessage,
	}); err != nil {
		s.log.Error().Err(err).Msg("Enqueue status notification failed")
	}

	return updated, nil
}

// ListByClass retrieves a class's memberships. Visible to the creator and
// approved members only.
func (s *MemberService) ListByClass(ctx context.Context, classID, viewerID uuid.UUID) ([]model.ClassMemberView, error) {
	if err := s.requireClassAccess(ctx, classID, viewerID); err != nil {
		return nil, err
	}
	members, err := s.members.ListByClass(ctx, classID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return members, nil
}

// ListUserMemberships retrieves all of a user's memberships with classes.
func (s *MemberService) ListUserMemberships(ctx context.Context, userID uuid.UUID, statuses ...model.MemberStatus) ([]model.UserMembership, error) {
	memberships, err := s.members.ListByUser(ctx, userID, statuses...)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return memberships, nil
}

// GetMembershipStatus retrieves the viewer's membership in one class.
func (s *MemberService) GetMembershipStatus(ctx context.Context, classID, userID uuid.UUID) (*model.ClassMember, error) {
	member, err := s.members.GetByClassAndUser(ctx, classID, userID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return member, nil
}

// CanAccessClass reports whether a user may read a class's members and
// schedules: the creator and approved members may.
func (s *MemberService) CanAccessClass(ctx context.Context, classID, userID uuid.UUID) error {
	return s.requireClassAccess(ctx, classID, userID)
}

// requireClassAccess allows the class creator and approved members.
func (s *MemberService) requireClassAccess(ctx context.Context, classID, userID uuid.UUID) error {
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
