package cron

import (
	"context"
	"time"

	"github.com/kelasku/kelasku-backend/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// notificationRetention is how long read notifications are kept before the
// weekly pruning job removes them.
const notificationRetention = 30 * 24 * time.Hour

// Scheduler runs periodic maintenance tasks.
type Scheduler struct {
	cron          *cron.Cron
	notifications *repository.NotificationRepository
	log           zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(notifications *repository.NotificationRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		notifications: notifications,
		log:           log.With().Str("component", "cron").Logger(),
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() {
	// Clean up old notifications - Run every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", s.pruneNotifications)

	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("Scheduler stopped")
}

// pruneNotifications removes read notifications older than the retention
// window.
func (s *Scheduler) pruneNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-notificationRetention)
	deleted, err := s.notifications.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("Notification cleanup failed")
		return
	}
	s.log.Info().Int64("deleted", deleted).Msg("Notification cleanup done")
}
