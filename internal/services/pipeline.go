package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-monitor/internal/enrichment"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/events"
	"github.com/maxaizer/job-monitor/internal/logger"
	"github.com/maxaizer/job-monitor/internal/matching"
	"github.com/maxaizer/job-monitor/internal/metrics"
	"github.com/maxaizer/job-monitor/internal/sources"
	log "github.com/sirupsen/logrus"
	"time"
)

type postingEnricher interface {
	Enrich(ctx context.Context, raw entities.RawPosting) (entities.EnrichedPosting, error)
}

type subscriberRepository interface {
	GetActive(ctx context.Context) ([]entities.Subscriber, error)
}

type postingRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, posting entities.EnrichedPosting) error
}

type queueRepository interface {
	InsertMany(ctx context.Context, entries []entities.QueueEntry) (int64, error)
}

type sourceStatusRepository interface {
	RecordSuccess(ctx context.Context, source entities.Source, fetched int) error
	RecordFailure(ctx context.Context, source entities.Source, cause error) error
}

type PipelineRepositories struct {
	Subscribers    subscriberRepository
	Postings       postingRepository
	Queue          queueRepository
	SourceStatuses sourceStatusRepository
}

type RunSummary struct {
	SourcesSucceeded   int
	SourcesFailed      int
	PostingsFetched    int
	PostingsInvalid    int
	PostingsNew        int
	PostingsEnriched   int
	InvalidSubscribers int
	MatchedSubscribers int
	QueueInserted      int64
}

func (s RunSummary) String() string {
	return fmt.Sprintf("sources ok/failed: %d/%d, postings fetched: %d, invalid: %d, new: %d, enriched: %d, "+
		"invalid subscribers: %d, matched subscribers: %d, queued: %d",
		s.SourcesSucceeded, s.SourcesFailed, s.PostingsFetched, s.PostingsInvalid, s.PostingsNew,
		s.PostingsEnriched, s.InvalidSubscribers, s.MatchedSubscribers, s.QueueInserted)
}

type subscriberFilter struct {
	subscriber entities.Subscriber
	filter     *matching.Filter
}

// Pipeline fetches every source, stores and enriches unseen postings and queues them
// for the subscribers whose preferences they match.
type Pipeline struct {
	bus          EventBus.Bus
	sources      []sources.Source
	enricher     postingEnricher
	repositories PipelineRepositories
}

func NewPipeline(bus EventBus.Bus, postingSources []sources.Source, enricher postingEnricher,
	repositories PipelineRepositories) (*Pipeline, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if enricher == nil {
		return nil, errors.New("enricher is nil")
	}
	if repositories.Subscribers == nil || repositories.Postings == nil ||
		repositories.Queue == nil || repositories.SourceStatuses == nil {
		return nil, errors.New("pipeline repositories are incomplete")
	}

	return &Pipeline{bus: bus, sources: postingSources, enricher: enricher, repositories: repositories}, nil
}

func (p *Pipeline) Run(ctx context.Context) (RunSummary, error) {
	startTime := time.Now()
	log.Infof("running pipeline at %v", startTime)

	summary, err := p.run(ctx)

	executionTime := time.Since(startTime)
	metrics.PipelineRunDuration.Observe(executionTime.Seconds())

	if errors.Is(err, context.Canceled) {
		log.Warnf("pipeline interrupted after %v, committed sources are kept (%v)", executionTime, summary)
		return summary, err
	}
	if err != nil {
		log.Errorf("pipeline aborted after %v: %v (%v)", executionTime, err, summary)
		return summary, err
	}

	log.Infof("pipeline ended after %v: %v", executionTime, summary)
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context) (summary RunSummary, err error) {
	filters, err := p.loadFilters(ctx, &summary)
	if err != nil {
		return summary, err
	}

	matched := make([][]entities.EnrichedPosting, len(filters))
	defer p.publish(filters, matched, &summary)

	seen := make(map[string]struct{})

	for _, source := range p.sources {
		if err = ctx.Err(); err != nil {
			return summary, err
		}

		raws, ok := p.fetch(ctx, source, &summary)
		if !ok {
			if err = ctx.Err(); err != nil {
				return summary, err
			}
			continue
		}

		var fresh []entities.EnrichedPosting
		for _, raw := range raws {
			enriched, keep, err := p.ingest(ctx, raw, seen, &summary)
			if err != nil {
				return summary, err
			}
			if keep {
				fresh = append(fresh, enriched)
			}
		}

		// A batch is committed even when the run is being cancelled, so stored postings
		// always have their queue entries.
		if err = p.commit(context.WithoutCancel(ctx), fresh, filters, matched, &summary); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func (p *Pipeline) loadFilters(ctx context.Context, summary *RunSummary) ([]subscriberFilter, error) {
	subscribers, err := p.repositories.Subscribers.GetActive(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get active subscribers: %v", err)
		return nil, err
	}

	filters := make([]subscriberFilter, 0, len(subscribers))
	for _, subscriber := range subscribers {
		filter, err := matching.NewFilter(subscriber.PreferenceSet())
		if err != nil {
			summary.InvalidSubscribers++
			log.WithField(logger.ErrorTypeField, logger.ErrorTypePreferences).
				Errorf("skipping subscriber %v with malformed preferences: %v", subscriber.ID, err)
			continue
		}
		filters = append(filters, subscriberFilter{subscriber: subscriber, filter: filter})
	}

	return filters, nil
}

func (p *Pipeline) fetch(ctx context.Context, source sources.Source, summary *RunSummary) ([]entities.RawPosting, bool) {
	name := source.Name()

	start := time.Now()
	raws, err := source.Fetch(ctx)
	metrics.SourceFetchDuration.WithLabelValues(string(name)).Observe(time.Since(start).Seconds())

	if err != nil && ctx.Err() != nil {
		log.WithField(logger.SourceField, name).Infof("fetch of %v interrupted: %v", name, err)
		return nil, false
	}

	if err != nil {
		summary.SourcesFailed++
		metrics.SourceFailuresCounter.WithLabelValues(string(name)).Inc()
		log.WithFields(log.Fields{logger.ErrorTypeField: logger.ErrorTypeSource, logger.SourceField: name}).
			Errorf("failed to fetch source %v: %v", name, err)

		if recordErr := p.repositories.SourceStatuses.RecordFailure(ctx, name, err); recordErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to record source failure: %v", recordErr)
		}
		return nil, false
	}

	summary.SourcesSucceeded++
	summary.PostingsFetched += len(raws)
	log.WithField(logger.SourceField, name).Debugf("fetched %d postings from %v", len(raws), name)

	if recordErr := p.repositories.SourceStatuses.RecordSuccess(ctx, name, len(raws)); recordErr != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to record source success: %v", recordErr)
	}
	return raws, true
}

// ingest returns keep=false for postings that are invalid, repeated or already stored.
// Only a gazetteer failure is returned as an error. Nothing is written here.
func (p *Pipeline) ingest(ctx context.Context, raw entities.RawPosting, seen map[string]struct{},
	summary *RunSummary) (entities.EnrichedPosting, bool, error) {

	if err := raw.Validate(); err != nil {
		summary.PostingsInvalid++
		log.Debugf("skipping invalid posting %q from %v: %v", raw.ID, raw.Source, err)
		return entities.EnrichedPosting{}, false, nil
	}

	if _, ok := seen[raw.ID]; ok {
		return entities.EnrichedPosting{}, false, nil
	}
	seen[raw.ID] = struct{}{}

	exists, err := p.repositories.Postings.Exists(ctx, raw.ID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to check posting %v: %v", raw.ID, err)
		return entities.EnrichedPosting{}, false, nil
	}
	if exists {
		return entities.EnrichedPosting{}, false, nil
	}
	summary.PostingsNew++

	enriched, err := p.enricher.Enrich(ctx, raw)
	if err != nil {
		if errors.Is(err, enrichment.ErrGazetteerUnavailable) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeGazetteer).Errorf("gazetteer unavailable: %v", err)
		}
		return entities.EnrichedPosting{}, false, err
	}

	return enriched, true, nil
}

// commit queues the matches of one source's new postings and only then stores the postings.
// A posting is marked as seen only after its queue entries exist, so a failed insert leaves
// it new for the next run. Re-queueing is harmless because inserts ignore duplicates.
func (p *Pipeline) commit(ctx context.Context, postings []entities.EnrichedPosting,
	filters []subscriberFilter, matched [][]entities.EnrichedPosting, summary *RunSummary) error {

	if len(postings) == 0 {
		return nil
	}

	prepared := make([]matching.Posting, len(postings))
	for i, posting := range postings {
		prepared[i] = matching.NewPosting(posting)
	}

	var entries []entities.QueueEntry
	matches := make([][]int, len(filters))

	for f, sf := range filters {
		for i, posting := range prepared {
			if sf.filter.Match(posting) {
				matches[f] = append(matches[f], i)
				entries = append(entries, entities.QueueEntry{UserID: sf.subscriber.ID, PostingID: posting.ID})
			}
		}
	}

	if len(entries) > 0 {
		inserted, err := p.repositories.Queue.InsertMany(ctx, entries)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to queue %d entries: %v", len(entries), err)
			return err
		}
		summary.QueueInserted += inserted
		metrics.QueueEntriesInsertedCounter.Add(float64(inserted))
	}

	stored := make([]bool, len(postings))
	for i, posting := range postings {
		if err := p.repositories.Postings.Upsert(ctx, posting); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to store posting %v: %v", posting.ID, err)
			continue
		}
		stored[i] = true
		summary.PostingsEnriched++
		metrics.PostingsEnrichedCounter.Inc()
	}

	for f, indexes := range matches {
		for _, i := range indexes {
			if stored[i] {
				matched[f] = append(matched[f], postings[i])
			}
		}
	}
	return nil
}

// publish notifies every subscriber once per run about the postings committed for them.
func (p *Pipeline) publish(filters []subscriberFilter, matched [][]entities.EnrichedPosting, summary *RunSummary) {
	for f, sf := range filters {
		if len(matched[f]) == 0 {
			continue
		}
		summary.MatchedSubscribers++
		p.bus.Publish(events.PostingsQueuedTopic, events.PostingsQueued{
			UserID:         sf.subscriber.ID,
			TelegramChatID: sf.subscriber.TelegramChatID,
			Postings:       matched[f],
		})
	}
}
