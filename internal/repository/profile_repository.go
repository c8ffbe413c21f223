package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelasku/kelasku-backend/internal/model"
)

// ProfileRepository handles profile data access.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, email, full_name, role, password_hash, created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

// GetByEmail retrieves a profile by email.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO profiles (email, full_name, role, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		p.Email, p.FullName, p.Role, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update modifies a profile's mutable fields and returns the updated row.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, fullName string, role model.Role) (*model.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`UPDATE profiles
		 SET full_name = $2, role = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+profileColumns,
		id, fullName, role))
}
