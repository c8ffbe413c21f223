package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelasku/kelasku-backend/internal/model"
)

// ScheduleRepository handles schedule data access.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `id, class_id, title, description, schedule_date, schedule_time, type, created_by, created_at, updated_at`

func scanSchedule(row pgx.Row) (*model.Schedule, error) {
	s := &model.Schedule{}
	err := row.Scan(&s.ID, &s.ClassID, &s.Title, &s.Description, &s.Date, &s.Time,
		&s.Type, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a schedule by its ID.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, id))
}

// ListByClass retrieves a class's schedules with creator names, ordered by
// date then time ascending.
func (r *ScheduleRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]model.ScheduleView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+`, creator_name
		 FROM schedules_view
		 WHERE class_id = $1
		 ORDER BY schedule_date, schedule_time`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []model.ScheduleView
	for rows.Next() {
		var s model.ScheduleView
		if err := rows.Scan(&s.ID, &s.ClassID, &s.Title, &s.Description, &s.Date, &s.Time,
			&s.Type, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.CreatorName); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Create inserts a new schedule.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO schedules (class_id, title, description, schedule_date, schedule_time, type, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		s.ClassID, s.Title, s.Description, s.Date, s.Time, s.Type, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// Update modifies a schedule and returns the updated row.
func (r *ScheduleRepository) Update(ctx context.Context, s *model.Schedule) (*model.Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx,
		`UPDATE schedules
		 SET title = $2, description = $3, schedule_date = $4, schedule_time = $5, type = $6,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+scheduleColumns,
		s.ID, s.Title, s.Description, s.Date, s.Time, s.Type))
}

// Delete removes a schedule and returns the deleted row image for the feed.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx,
		`DELETE FROM schedules WHERE id = $1 RETURNING `+scheduleColumns, id))
}
