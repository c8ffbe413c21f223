package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelasku/kelasku-backend/internal/model"
)

// NotificationRepository handles notification data access.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, type, title, message, is_read, created_at`

func scanNotification(row pgx.Row) (*model.Notification, error) {
	n := &model.Notification{}
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, type, title, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_read, created_at`,
		n.UserID, n.Type, n.Title, n.Message,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

// ListByUser retrieves a user's most recent notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+`
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

// MarkRead flags one notification as read and returns the updated row.
// The user filter prevents marking someone else's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns, id, userID))
}

// MarkAllRead flags all of a user's unread notifications as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteReadOlderThan removes read notifications created before the cutoff.
// Used by the pruning job.
func (r *NotificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE is_read AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
