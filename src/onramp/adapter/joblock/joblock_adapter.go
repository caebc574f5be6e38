package joblock

import (
	"context"

	"github.com/ghostlabs/asap-onramp/src/joblock/domain"
	"github.com/google/uuid"
)

type JobLockAdapter interface {
	Acquire(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
}

var _ JobLockAdapter = (*JobLockPort)(nil)

func NewJobLockPort(lockService domain.JobLockUsecase) JobLockAdapter {
	return &JobLockPort{lockService: lockService}
}

type JobLockPort struct {
	lockService domain.JobLockUsecase
}

func (p *JobLockPort) Acquire(ctx context.Context, id uuid.UUID) error {
	return p.lockService.Acquire(ctx, id)
}

func (p *JobLockPort) Release(ctx context.Context, id uuid.UUID) error {
	return p.lockService.Release(ctx, id)
}
