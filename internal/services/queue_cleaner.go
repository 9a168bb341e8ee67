package services

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type QueueCleanupRepository interface {
	RemoveSentBefore(ctx context.Context, t time.Time) (int64, error)
}

// QueueCleaner purges sent queue entries older than the retention period.
type QueueCleaner struct {
	queue         QueueCleanupRepository
	cron          *cron.Cron
	retentionDays int
	now           func() time.Time
}

func NewQueueCleaner(queue QueueCleanupRepository, retentionDays int, schedule string,
	location *time.Location) (*QueueCleaner, error) {

	if retentionDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}
	if location == nil {
		location = time.UTC
	}

	qc := &QueueCleaner{
		queue:         queue,
		cron:          cron.New(cron.WithLocation(location)),
		retentionDays: retentionDays,
		now:           time.Now,
	}

	_, err := qc.cron.AddFunc(schedule, func() { _, _ = qc.Clean(context.Background()) })
	if err != nil {
		return nil, errors.Wrapf(err, "invalid cleanup schedule %q", schedule)
	}

	return qc, nil
}

func (qc *QueueCleaner) Start() {
	qc.cron.Start()
	log.Infof("queue cleaner started, retention in days: %d", qc.retentionDays)
}

func (qc *QueueCleaner) Stop() {
	<-qc.cron.Stop().Done()
}

func (qc *QueueCleaner) Clean(ctx context.Context) (int64, error) {
	threshold := qc.now().AddDate(0, 0, -qc.retentionDays)
	rowsAffected, err := qc.queue.RemoveSentBefore(ctx, threshold)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to clean sent queue entries: %v", err)
		return 0, err
	}

	log.Infof("sent queue entries before %v were cleaned, affected rows: %v", threshold, rowsAffected)
	return rowsAffected, nil
}
