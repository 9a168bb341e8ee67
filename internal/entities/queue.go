package entities

import "time"

type QueueEntry struct {
	ID        int
	UserID    string `gorm:"uniqueIndex:idx_queue_user_posting"`
	PostingID string `gorm:"uniqueIndex:idx_queue_user_posting"`
	SentAt    *time.Time
	CreatedAt time.Time
}

type SourceStatus struct {
	Source              Source `gorm:"primaryKey"`
	LastRunAt           time.Time
	LastOkAt            *time.Time
	LastError           string
	LastFetched         int
	ConsecutiveFailures int `gorm:"default:0"`
	UpdatedAt           time.Time
}
