package usecase

import (
	"context"

	"github.com/ghostlabs/asap-onramp/src/joblock/domain"
	"github.com/ghostlabs/asap-onramp/src/logger"
	"github.com/google/uuid"
)

var _ domain.JobLockUsecase = (*Service)(nil)

type Service struct {
	lockRepo domain.JobLockRepository
	logger   *logger.Logger
}

func NewService(lockRepo domain.JobLockRepository, logg *logger.Logger) *Service {
	return &Service{
		lockRepo: lockRepo,
		logger:   logg,
	}
}

func (s *Service) Acquire(ctx context.Context, id uuid.UUID) error {
	_, err := s.lockRepo.SaveLock(ctx, &domain.JobLock{ID: id})
	return err
}

func (s *Service) Release(ctx context.Context, id uuid.UUID) error {
	return s.lockRepo.DeleteLock(ctx, id)
}
