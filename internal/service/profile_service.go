package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/model"
)

// ProfileService handles account profiles. The role is write-once: it can be
// set while empty and never changed afterwards.
type ProfileService struct {
	profiles ProfileStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetByID retrieves a profile.
func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return p, nil
}

// GetByEmail retrieves a profile by email.
func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return p, nil
}

// Create registers a new profile.
func (s *ProfileService) Create(ctx context.Context, p *model.Profile) error {
	if err := s.profiles.Create(ctx, p); err != nil {
		return apperror.Classify(err)
	}
	return nil
}

// Update changes the full name and, while still unset, the role.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	current, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Classify(err)
	}

	fullName := current.FullName
	if req.FullName != "" {
		fullName = req.FullName
	}

	role := current.Role
	if req.Role != "" {
		if current.Role != "" && current.Role != req.Role {
			return nil, apperror.New(apperror.KindForbidden, "peran akun tidak dapat diubah")
		}
		role = req.Role
	}

	updated, err := s.profiles.Update(ctx, id, fullName, role)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return updated, nil
}
