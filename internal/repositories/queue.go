package repositories

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type Queue struct {
	db *gorm.DB
}

func NewQueueRepository(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// InsertMany adds entries and skips (user, posting) pairs that are already queued.
// It returns the number of entries actually inserted.
func (q *Queue) InsertMany(ctx context.Context, entries []entities.QueueEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	res := q.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&entries, 100)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "failed to insert queue entries")
	}
	return res.RowsAffected, nil
}

// GetUnsentPostings returns the queued postings that have not been delivered to the user yet.
func (q *Queue) GetUnsentPostings(ctx context.Context, userID string) ([]entities.Posting, error) {
	var postings []entities.Posting
	err := q.db.WithContext(ctx).
		Model(&entities.Posting{}).
		Joins("JOIN queue_entries ON queue_entries.posting_id = postings.id").
		Where("queue_entries.user_id = ? AND queue_entries.sent_at IS NULL", userID).
		Order("postings.source, postings.created_at").
		Find(&postings).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get unsent postings for user %s", userID)
	}
	return postings, nil
}

func (q *Queue) MarkSent(ctx context.Context, userID string, postingIDs []string) (int64, error) {
	if len(postingIDs) == 0 {
		return 0, nil
	}

	res := q.db.WithContext(ctx).
		Model(&entities.QueueEntry{}).
		Where("user_id = ? AND posting_id IN ? AND sent_at IS NULL", userID, postingIDs).
		Update("sent_at", time.Now().UTC())
	return res.RowsAffected, res.Error
}

func (q *Queue) RemoveSentBefore(ctx context.Context, t time.Time) (int64, error) {
	res := q.db.WithContext(ctx).Delete(&entities.QueueEntry{}, "sent_at IS NOT NULL AND sent_at < ?", t.UTC())
	return res.RowsAffected, res.Error
}

// CountUnsent is used by the digest sender to report the backlog.
func (q *Queue) CountUnsent(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&entities.QueueEntry{}).Where("sent_at IS NULL").Count(&count).Error
	return count, err
}
