package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelasku/kelasku-backend/internal/model"
)

// MemberRepository handles class membership data access.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, class_id, user_id, status, joined_at, created_at, updated_at`

func scanMember(row pgx.Row) (*model.ClassMember, error) {
	m := &model.ClassMember{}
	err := row.Scan(&m.ID, &m.ClassID, &m.UserID, &m.Status, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreatePending inserts a pending membership only while the class still has
// capacity. The class row is locked first so concurrent joins serialize on
// the capacity check instead of each reading a snapshot that misses the
// other's row. Returns pgx.ErrNoRows when the class is full.
func (r *MemberRepository) CreatePending(ctx context.Context, classID, userID uuid.UUID) (*model.ClassMember, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	hasRoom, err := lockClassCapacity(ctx, tx, classID)
	if err != nil {
		return nil, err
	}
	if !hasRoom {
		return nil, pgx.ErrNoRows
	}

	m, err := scanMember(tx.QueryRow(ctx,
		`INSERT INTO class_members (class_id, user_id, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING `+memberColumns,
		classID, userID))
	if err != nil {
		return nil, err
	}
	return m, tx.Commit(ctx)
}

// lockClassCapacity takes the class row lock and reports whether the class
// still has room for another approved member. Counting after the lock is
// acquired means the count always sees every committed approval.
func lockClassCapacity(ctx context.Context, tx pgx.Tx, classID uuid.UUID) (bool, error) {
	var limit int
	if err := tx.QueryRow(ctx,
		`SELECT member_limit FROM classes WHERE id = $1 FOR UPDATE`, classID).Scan(&limit); err != nil {
		return false, err
	}

	var approved int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM class_members WHERE class_id = $1 AND status = 'approved'`,
		classID).Scan(&approved); err != nil {
		return false, err
	}
	return approved < limit, nil
}

// GetByID retrieves a membership by its ID.
func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ClassMember, error) {
	return scanMember(r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM class_members WHERE id = $1`, id))
}

// GetByClassAndUser retrieves the single membership for a (class, user) pair.
func (r *MemberRepository) GetByClassAndUser(ctx context.Context, classID, userID uuid.UUID) (*model.ClassMember, error) {
	return scanMember(r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM class_members WHERE class_id = $1 AND user_id = $2`,
		classID, userID))
}

// ListByClass retrieves all memberships of a class with member profiles,
// newest first.
func (r *MemberRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]model.ClassMemberView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, user_id, status, joined_at, created_at, updated_at, full_name, email
		 FROM class_members_view
		 WHERE class_id = $1
		 ORDER BY created_at DESC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.ClassMemberView
	for rows.Next() {
		var m model.ClassMemberView
		if err := rows.Scan(&m.ID, &m.ClassID, &m.UserID, &m.Status, &m.JoinedAt,
			&m.CreatedAt, &m.UpdatedAt, &m.FullName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListByUser retrieves a user's memberships joined with their classes.
// Pass statuses to filter; empty means all statuses.
func (r *MemberRepository) ListByUser(ctx context.Context, userID uuid.UUID, statuses ...model.MemberStatus) ([]model.UserMembership, error) {
	query := `SELECT m.id, m.class_id, m.user_id, m.status, m.joined_at, m.created_at, m.updated_at,
	                 c.id, c.name, c.description, c.prodi, c.creator_id, c.member_limit, c.is_active, c.created_at, c.updated_at
	          FROM class_members m
	          JOIN classes c ON c.id = m.class_id
	          WHERE m.user_id = $1`
	args := []interface{}{userID}
	if len(statuses) > 0 {
		query += ` AND m.status = ANY($2)`
		list := make([]string, len(statuses))
		for i, s := range statuses {
			list[i] = string(s)
		}
		args = append(args, list)
	}
	query += ` ORDER BY m.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []model.UserMembership
	for rows.Next() {
		var um model.UserMembership
		if err := rows.Scan(&um.ID, &um.ClassID, &um.UserID, &um.Status, &um.JoinedAt,
			&um.CreatedAt, &um.UpdatedAt,
			&um.Class.ID, &um.Class.Name, &um.Class.Description, &um.Class.Prodi,
			&um.Class.CreatorID, &um.Class.MemberLimit, &um.Class.IsActive,
			&um.Class.CreatedAt, &um.Class.UpdatedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, um)
	}
	return memberships, rows.Err()
}

// Approve moves a pending membership to approved and stamps joined_at. The
// capacity check runs under the class row lock, so two approvals of different
// pending rows cannot both squeeze past the limit. Returns pgx.ErrNoRows when
// the row is not pending or the class is full.
func (r *MemberRepository) Approve(ctx context.Context, id uuid.UUID) (*model.ClassMember, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var classID uuid.UUID
	if err := tx.QueryRow(ctx,
		`SELECT class_id FROM class_members WHERE id = $1 AND status = 'pending'`,
		id).Scan(&classID); err != nil {
		return nil, err
	}

	hasRoom, err := lockClassCapacity(ctx, tx, classID)
	if err != nil {
		return nil, err
	}
	if !hasRoom {
		return nil, pgx.ErrNoRows
	}

	m, err := scanMember(tx.QueryRow(ctx,
		`UPDATE class_members
		 SET status = 'approved', joined_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+memberColumns, id))
	if err != nil {
		return nil, err
	}
	return m, tx.Commit(ctx)
}

// Reject moves a pending membership to rejected. Rejected is terminal.
// Returns pgx.ErrNoRows when the row is not pending.
func (r *MemberRepository) Reject(ctx context.Context, id uuid.UUID) (*model.ClassMember, error) {
	return scanMember(r.pool.QueryRow(ctx,
		`UPDATE class_members
		 SET status = 'rejected', updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+memberColumns, id))
}

// ListApprovedUserIDs returns the user ids of a class's approved members.
// The notification fan-out worker uses this to address broadcasts.
func (r *MemberRepository) ListApprovedUserIDs(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM class_members WHERE class_id = $1 AND status = 'approved'`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
