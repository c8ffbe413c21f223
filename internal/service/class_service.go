package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/model"
)

// ClassService handles class business logic.
type ClassService struct {
	classes            ClassStore
	defaultMemberLimit int
}

// NewClassService creates a new ClassService.
func NewClassService(classes ClassStore, defaultMemberLimit int) *ClassService {
	return &ClassService{classes: classes, defaultMemberLimit: defaultMemberLimit}
}

// Create creates a class owned by the given user. The member limit defaults
// when absent and is immutable afterwards.
func (s *ClassService) Create(ctx context.Context, creatorID uuid.UUID, req model.CreateClassRequest) (*model.Class, error) {
	limit := req.MemberLimit
	if limit == 0 {
		limit = s.defaultMemberLimit
	}

	class := &model.Class{
		Name:        req.Name,
		Description: req.Description,
		Prodi:       req.Prodi,
		CreatorID:   creatorID,
		MemberLimit: limit,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, apperror.Classify(err)
	}
	return class, nil
}

// Update changes a class's settings. Only the creator may do this; the
// member limit is never touched.
func (s *ClassService) Update(ctx context.Context, classID, actorID uuid.UUID, req model.UpdateClassRequest) (*model.Class, error) {
	current, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	if current.CreatorID != actorID {
		return nil, apperror.New(apperror.KindForbidden, "hanya pembuat kelas yang dapat mengubah pengaturan")
	}

	if req.Name != "" {
		current.Name = req.Name
	}
	if req.Description != "" {
		current.Description = req.Description
	}
	if req.Prodi != "" {
		current.Prodi = req.Prodi
	}

	updated, err := s.classes.Update(ctx, current)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return updated, nil
}

// GetWithStats retrieves a class with its membership counts.
func (s *ClassService) GetWithStats(ctx context.Context, id uuid.UUID) (*model.ClassWithStats, error) {
	c, err := s.classes.GetWithStats(ctx, id)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return c, nil
}

// ListByCreator retrieves the classes a user owns.
func (s *ClassService) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.ClassWithStats, error) {
	classes, err := s.classes.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return classes, nil
}

// Search finds active classes matching the term.
func (s *ClassService) Search(ctx context.Context, term string) ([]model.ClassWithStats, error) {
	classes, err := s.classes.Search(ctx, term)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return classes, nil
}
