package domain

import (
	"context"

	"github.com/google/uuid"
)

// JobLock is a row held while a scheduled job runs. The primary-key
// constraint is the mutual exclusion: a second acquire for the same id
// fails until the first run releases it.
type JobLock struct {
	ID uuid.UUID
}

type JobLockRepository interface {
	SaveLock(ctx context.Context, l *JobLock) (*JobLock, error)
	DeleteLock(ctx context.Context, id uuid.UUID) error
}

type JobLockUsecase interface {
	Acquire(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
}
