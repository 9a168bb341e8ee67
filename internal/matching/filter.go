// Package matching decides which subscribers receive which postings.
package matching

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/textmatch"
	"strings"
)

const defaultCountry = "SE"

var validate = validator.New()

type set[T comparable] map[T]struct{}

func newSet[T comparable](items []T, normalize func(T) T) set[T] {
	if len(items) == 0 {
		return nil
	}
	s := make(set[T], len(items))
	for _, item := range items {
		if normalize != nil {
			item = normalize(item)
		}
		s[item] = struct{}{}
	}
	return s
}

// has treats an empty set as unrestricted.
func (s set[T]) has(item T) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[item]
	return ok
}

// Posting is an enriched posting with its search text prepared once.
type Posting struct {
	entities.EnrichedPosting
	text textmatch.Text
}

func NewPosting(enriched entities.EnrichedPosting) Posting {
	return Posting{
		EnrichedPosting: enriched,
		text:            textmatch.Join(enriched.Title, enriched.Description),
	}
}

// Filter is one subscriber's compiled PreferenceSet.
type Filter struct {
	UserID string

	countries       set[string]
	sources         set[entities.Source]
	include         []textmatch.Pattern
	exclude         []textmatch.Pattern
	regions         set[string]
	municipalities  set[string]
	employmentTypes set[entities.EmploymentType]
}

func NewFilter(prefs entities.PreferenceSet) (*Filter, error) {
	if err := validate.Struct(prefs); err != nil {
		return nil, fmt.Errorf("invalid preferences for user %q: %w", prefs.UserID, err)
	}
	if err := checkKeywords(prefs.KeywordsInclude); err != nil {
		return nil, fmt.Errorf("invalid include keywords for user %q: %w", prefs.UserID, err)
	}
	if err := checkKeywords(prefs.KeywordsExclude); err != nil {
		return nil, fmt.Errorf("invalid exclude keywords for user %q: %w", prefs.UserID, err)
	}

	return &Filter{
		UserID:          prefs.UserID,
		countries:       newSet(prefs.Countries, strings.ToUpper),
		sources:         newSet(prefs.SourcesEnabled, nil),
		include:         textmatch.CompileAll(prefs.KeywordsInclude),
		exclude:         textmatch.CompileAll(prefs.KeywordsExclude),
		regions:         newSet(prefs.Regions, nil),
		municipalities:  newSet(prefs.Municipalities, nil),
		employmentTypes: newSet(prefs.EmploymentTypes, nil),
	}, nil
}

func checkKeywords(keywords []string) error {
	for i, keyword := range keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("keyword %d is blank", i)
		}
	}
	return nil
}

// Match checks country, source, include and exclude keywords, region, municipality and
// employment type, stopping at the first rejection. Unknown region, municipality and
// employment type never reject.
func (f *Filter) Match(p Posting) bool {
	country := p.Country
	if country == "" {
		country = defaultCountry
	}
	if !f.countries.has(strings.ToUpper(country)) {
		return false
	}

	if !f.sources.has(p.Source) {
		return false
	}

	if len(f.include) > 0 && !textmatch.AnyIn(f.include, p.text) {
		return false
	}

	if textmatch.AnyIn(f.exclude, p.text) {
		return false
	}

	if lanCode, ok := p.LanCode(); ok && !f.regions.has(lanCode) {
		return false
	}

	if municipalityCode, ok := p.MunicipalityCode(); ok && !f.municipalities.has(municipalityCode) {
		return false
	}

	if p.EmploymentType != nil && !f.employmentTypes.has(*p.EmploymentType) {
		return false
	}

	return true
}

func Matches(enriched entities.EnrichedPosting, prefs entities.PreferenceSet) (bool, error) {
	filter, err := NewFilter(prefs)
	if err != nil {
		return false, err
	}
	return filter.Match(NewPosting(enriched)), nil
}
