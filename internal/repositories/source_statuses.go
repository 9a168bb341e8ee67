package repositories

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"time"
)

type SourceStatuses struct {
	db *gorm.DB
}

func NewSourceStatusesRepository(db *gorm.DB) *SourceStatuses {
	return &SourceStatuses{db: db}
}

func (repo *SourceStatuses) RecordSuccess(ctx context.Context, source entities.Source, fetched int) error {
	return repo.update(ctx, source, func(status *entities.SourceStatus, now time.Time) {
		status.LastOkAt = &now
		status.LastError = ""
		status.LastFetched = fetched
		status.ConsecutiveFailures = 0
	})
}

func (repo *SourceStatuses) RecordFailure(ctx context.Context, source entities.Source, cause error) error {
	return repo.update(ctx, source, func(status *entities.SourceStatus, _ time.Time) {
		status.LastError = cause.Error()
		status.LastFetched = 0
		status.ConsecutiveFailures++
	})
}

func (repo *SourceStatuses) GetAll(ctx context.Context) ([]entities.SourceStatus, error) {
	var statuses []entities.SourceStatus
	if err := repo.db.WithContext(ctx).Order("source").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (repo *SourceStatuses) update(ctx context.Context, source entities.Source,
	apply func(status *entities.SourceStatus, now time.Time)) error {

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status := entities.SourceStatus{Source: source}
		err := tx.First(&status, "source = ?", source).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(err, "failed to load status of source %s", source)
		}

		now := time.Now().UTC()
		status.LastRunAt = now
		apply(&status, now)

		return errors.Wrapf(tx.Save(&status).Error, "failed to save status of source %s", source)
	})
}
