package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/internal/realtime"
	"github.com/kelasku/kelasku-backend/internal/repository"
	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// NotifyJobsQueue is the Redis list the fan-out worker consumes.
	NotifyJobsQueue = "notify_jobs_queue"

	notifyPollTimeout = 1 * time.Second
)

// NotifyJob asks the worker to create one notification row per target user
// and publish the matching feed events.
type NotifyJob struct {
	UserIDs []uuid.UUID            `json:"user_ids"`
	Type    model.NotificationType `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
}

// Queue enqueues notification jobs onto Redis.
type Queue struct {
	rdb *redis.Client
}

// NewQueue creates a notification job queue.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue pushes a job for the worker. Jobs with no targets are dropped.
func (q *Queue) Enqueue(ctx context.Context, job NotifyJob) error {
	if len(job.UserIDs) == 0 {
		return nil
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal notify job: %w", err)
	}
	return q.rdb.RPush(ctx, NotifyJobsQueue, payload).Err()
}

// NotificationWorker drains the notify queue: inserts notification rows and
// publishes the per-user insert events, off the request path.
type NotificationWorker struct {
	rdb       *redis.Client
	repo      *repository.NotificationRepository
	publisher *realtime.Publisher
	log       zerolog.Logger
}

// NewNotificationWorker creates a NotificationWorker.
func NewNotificationWorker(rdb *redis.Client, repo *repository.NotificationRepository, publisher *realtime.Publisher, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:       rdb,
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("component", "notification_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotificationWorker stopped")
			return
		default:
			item, err := w.rdb.BLPop(ctx, notifyPollTimeout, NotifyJobsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var job NotifyJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid notify job payload")
				continue
			}

			w.process(ctx, job)
		}
	}
}

// process fans one job out to all of its target users. A failure for one
// user does not stop the rest.
func (w *NotificationWorker) process(ctx context.Context, job NotifyJob) {
	for _, userID := range job.UserIDs {
		n := &model.Notification{
			UserID:  userID,
			Type:    job.Type,
			Title:   job.Title,
			Message: job.Message,
		}
		if err := w.repo.Create(ctx, n); err != nil {
			w.log.Error().Err(err).
				Str("user_id", userID.String()).
				Str("type", string(job.Type)).
				Msg("Create notification failed")
			continue
		}
		w.publisher.PublishInsert(ctx, feed.TableNotifications, feed.NotificationScope(userID.String()), n)
	}

	w.log.Debug().
		Int("targets", len(job.UserIDs)).
		Str("type", string(job.Type)).
		Msg("Notify job processed")
}
