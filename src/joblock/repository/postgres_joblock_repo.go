package repository

import (
	"context"
	"time"

	"github.com/ghostlabs/asap-onramp/src/joblock/domain"
	"github.com/ghostlabs/asap-onramp/src/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ domain.JobLockRepository = (*JobLockRepo)(nil)

type JobLock struct {
	ID        uuid.UUID `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type JobLockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobLockRepo(db *gorm.DB, log *logger.Logger) *JobLockRepo {
	if err := db.AutoMigrate(&JobLock{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &JobLockRepo{db: db, log: log}
}

// SaveLock inserts the lock row; the duplicate-key error doubles as the
// "job already running" signal.
func (r *JobLockRepo) SaveLock(ctx context.Context, l *domain.JobLock) (*domain.JobLock, error) {
	model := JobLock{ID: l.ID}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return &domain.JobLock{ID: model.ID}, nil
}

func (r *JobLockRepo) DeleteLock(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&JobLock{ID: id}).Error
}
