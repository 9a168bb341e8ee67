package events

import "github.com/maxaizer/job-monitor/internal/entities"

var PostingsQueuedTopic = "PostingsQueuedEvent"

// PostingsQueued is published once per subscriber and run, for the postings newly queued for them.
type PostingsQueued struct {
	UserID         string
	TelegramChatID *int64
	Postings       []entities.EnrichedPosting
}
