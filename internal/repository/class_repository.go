package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelasku/kelasku-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `id, name, description, prodi, creator_id, member_limit, is_active, created_at, updated_at`

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Prodi, &c.CreatorID,
		&c.MemberLimit, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanClassWithStats(row pgx.Row) (*model.ClassWithStats, error) {
	c := &model.ClassWithStats{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Prodi, &c.CreatorID,
		&c.MemberLimit, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		&c.CreatorName, &c.CurrentMembers, &c.ApprovedMembers, &c.PendingMembers,
		&c.RemainingQuota, &c.IsFull)
	if err != nil {
		return nil, err
	}
	return c, nil
}

const statsColumns = classColumns + `, creator_name, current_members, approved_members, pending_members, remaining_quota, is_full`

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

// GetWithStats retrieves a class with denormalized membership counts.
func (r *ClassRepository) GetWithStats(ctx context.Context, id uuid.UUID) (*model.ClassWithStats, error) {
	return scanClassWithStats(r.pool.QueryRow(ctx,
		`SELECT `+statsColumns+` FROM classes_with_stats WHERE id = $1`, id))
}

// Search finds active classes whose name, description, or prodi contains the
// term, case-insensitively.
func (r *ClassRepository) Search(ctx context.Context, term string) ([]model.ClassWithStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+statsColumns+`
		 FROM classes_with_stats
		 WHERE is_active
		   AND (name ILIKE '%' || $1 || '%'
		     OR description ILIKE '%' || $1 || '%'
		     OR prodi ILIKE '%' || $1 || '%')
		 ORDER BY name`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.ClassWithStats
	for rows.Next() {
		c, err := scanClassWithStats(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// ListByCreator retrieves all classes owned by one user, newest first.
func (r *ClassRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.ClassWithStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+statsColumns+`
		 FROM classes_with_stats
		 WHERE creator_id = $1
		 ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.ClassWithStats
	for rows.Next() {
		c, err := scanClassWithStats(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// Create inserts a new class. Name is stored uppercase; the member limit is
// written once here and never updated afterwards.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, description, prodi, creator_id, member_limit)
		 VALUES (UPPER($1), $2, $3, $4, $5)
		 RETURNING id, name, is_active, created_at, updated_at`,
		c.Name, c.Description, c.Prodi, c.CreatorID, c.MemberLimit,
	).Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies a class's settings. member_limit is deliberately absent.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`UPDATE classes
		 SET name = UPPER($2), description = $3, prodi = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+classColumns,
		c.ID, c.Name, c.Description, c.Prodi))
}
