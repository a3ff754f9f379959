package service

import (
	"context"

	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/repository"
)

// StaffService exposes the staff directory.
type StaffService struct {
	store repository.Store
}

// NewStaffService constructs the service.
func NewStaffService(store repository.Store) *StaffService {
	return &StaffService{store: store}
}

// List returns all staff ordered by display name.
func (s *StaffService) List(ctx context.Context) ([]domain.Staff, error) {
	var staff []domain.Staff
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		staff, err = repos.Staff.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// GetByID returns one staff member.
func (s *StaffService) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	var staff *domain.Staff
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		staff, err = repos.Staff.GetByID(ctx, id)
		return notFoundAs(err, "Staff member")
	})
	if err != nil {
		return nil, err
	}
	return staff, nil
}
