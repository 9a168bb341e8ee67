package enrichment

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/entities"
)

// Enricher turns a raw posting into an enriched one. Identity fields are copied as is.
type Enricher struct {
	locations locationResolver
	countries CountryTable
}

func NewEnricher(locations locationResolver, countries CountryTable) *Enricher {
	return &Enricher{locations: locations, countries: countries}
}

func (e *Enricher) Enrich(ctx context.Context, raw entities.RawPosting) (entities.EnrichedPosting, error) {
	location, err := e.locations.Resolve(ctx, raw.Title, raw.Description)
	if err != nil {
		return entities.EnrichedPosting{}, err
	}

	return entities.EnrichedPosting{
		RawPosting:     raw,
		Country:        e.countries.CountryOf(raw.Source),
		Location:       location,
		EmploymentType: ClassifyEmploymentType(raw.Title, raw.Description, raw.APIEmploymentType),
	}, nil
}
