package services

import (
	"context"
	"errors"
	"github.com/maxaizer/job-monitor/internal/delivery"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/logger"
	"github.com/maxaizer/job-monitor/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

type digestRecipientRepository interface {
	GetDigestRecipients(ctx context.Context, isoWeekday int) ([]entities.Subscriber, error)
}

type digestQueueRepository interface {
	GetUnsentPostings(ctx context.Context, userID string) ([]entities.Posting, error)
	MarkSent(ctx context.Context, userID string, postingIDs []string) (int64, error)
	CountUnsent(ctx context.Context) (int64, error)
}

type mailer interface {
	Send(ctx context.Context, message delivery.Message) error
}

type DigestSummary struct {
	Recipients int
	Sent       int
	Failed     int
	Empty      int
}

const markSentAttempts = 3

// DigestSender emails each recipient due today their unsent queue entries. Entries are
// marked sent only after the mail server accepted the message, so failures retry next time.
// Delivered entries that could not be marked sent are kept in pending and marked before
// the next digest is built, so they are not mailed twice.
type DigestSender struct {
	subscribers   digestRecipientRepository
	queue         digestQueueRepository
	mailer        mailer
	location      *time.Location
	now           func() time.Time
	markSentDelay time.Duration

	mu      sync.Mutex
	pending map[string][]string
}

func NewDigestSender(subscribers digestRecipientRepository, queue digestQueueRepository, mailer mailer,
	location *time.Location) (*DigestSender, error) {

	if subscribers == nil || queue == nil || mailer == nil {
		return nil, errors.New("digest sender dependencies are incomplete")
	}
	if location == nil {
		location = time.UTC
	}

	return &DigestSender{
		subscribers:   subscribers,
		queue:         queue,
		mailer:        mailer,
		location:      location,
		now:           time.Now,
		markSentDelay: 2 * time.Second,
		pending:       make(map[string][]string),
	}, nil
}

func (d *DigestSender) Send(ctx context.Context) (DigestSummary, error) {
	var summary DigestSummary
	today := d.now().In(d.location)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.markPending(ctx)

	recipients, err := d.subscribers.GetDigestRecipients(ctx, entities.ISOWeekday(today))
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get digest recipients: %v", err)
		return summary, err
	}
	summary.Recipients = len(recipients)

	for _, recipient := range recipients {
		if err = ctx.Err(); err != nil {
			return summary, err
		}

		switch d.sendTo(ctx, recipient, today) {
		case digestSent:
			summary.Sent++
		case digestEmpty:
			summary.Empty++
		case digestFailed:
			summary.Failed++
		}
	}

	if unsent, err := d.queue.CountUnsent(ctx); err == nil {
		log.Infof("digests sent: %d, failed: %d, empty: %d, unsent queue entries left: %d",
			summary.Sent, summary.Failed, summary.Empty, unsent)
	} else {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to count unsent entries: %v", err)
	}

	return summary, nil
}

type digestOutcome int

const (
	digestSent digestOutcome = iota
	digestEmpty
	digestFailed
)

func (d *DigestSender) sendTo(ctx context.Context, recipient entities.Subscriber, today time.Time) digestOutcome {
	postings, err := d.queue.GetUnsentPostings(ctx, recipient.ID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to get unsent postings for %v: %v", recipient.ID, err)
		return digestFailed
	}
	if pending := d.pending[recipient.ID]; len(pending) > 0 {
		postings = lo.Reject(postings, func(p entities.Posting, _ int) bool { return lo.Contains(pending, p.ID) })
	}
	if len(postings) == 0 {
		return digestEmpty
	}

	message, err := delivery.NewDigest(postings, today).Message(recipient.Email)
	if err != nil {
		log.Errorf("failed to render digest for %v: %v", recipient.ID, err)
		return digestFailed
	}

	if err = d.mailer.Send(ctx, message); err != nil {
		metrics.DigestsFailedCounter.Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSmtp).
			Errorf("failed to send digest to %v, %d entries stay queued: %v", recipient.ID, len(postings), err)
		return digestFailed
	}
	metrics.DigestsSentCounter.Inc()

	ids := lo.Map(postings, func(p entities.Posting, _ int) string { return p.ID })
	if err = d.markSent(ctx, recipient.ID, ids); err != nil {
		d.pending[recipient.ID] = append(d.pending[recipient.ID], ids...)
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("digest sent to %v but entries were not marked sent, will retry before next digest: %v",
				recipient.ID, err)
	}
	return digestSent
}

// markSent retries on a context detached from cancellation: the mail is already delivered.
func (d *DigestSender) markSent(ctx context.Context, userID string, ids []string) error {
	markCtx := context.WithoutCancel(ctx)

	var err error
	_, _, _ = lo.AttemptWhileWithDelay(markSentAttempts, d.markSentDelay, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warnf("marking digest entries of %v as sent failed, retrying (%d)...", userID, i)
		}
		_, err = d.queue.MarkSent(markCtx, userID, ids)
		return err, err != nil
	})
	return err
}

func (d *DigestSender) markPending(ctx context.Context) {
	for userID, ids := range d.pending {
		if _, err := d.queue.MarkSent(context.WithoutCancel(ctx), userID, ids); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("entries delivered to %v are still not marked sent: %v", userID, err)
			continue
		}
		delete(d.pending, userID)
	}
}
