package enrichment

import (
	"context"
	"errors"
	"fmt"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/maxaizer/job-monitor/internal/textmatch"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"sort"
	"strings"
	"sync"
	"unicode"
)

var ErrGazetteerUnavailable = errors.New("gazetteer unavailable")

type GazetteerSource interface {
	FetchAll(ctx context.Context) ([]entities.Location, error)
}

// alternate spelling -> official municipality name, both lower-cased
var staticAliases = map[string]string{
	"gothenburg":   "göteborg",
	"goeteborg":    "göteborg",
	"malmo":        "malmö",
	"umea":         "umeå",
	"ostersund":    "östersund",
	"gavle":        "gävle",
	"vasteras":     "västerås",
	"norrkoping":   "norrköping",
	"linkoping":    "linköping",
	"jonkoping":    "jönköping",
	"sodertalje":   "södertälje",
	"angelholm":    "ängelholm",
	"hassleholm":   "hässleholm",
	"ornskoldsvik": "örnsköldsvik",
	"lulea":        "luleå",
	"boras":        "borås",
}

type candidate struct {
	name     string
	pattern  textmatch.Pattern
	location entities.Location
}

// Gazetteer is the in-memory municipality lookup. It is loaded once from its source on
// first use and is read-only afterwards.
type Gazetteer struct {
	source GazetteerSource

	mu         sync.Mutex
	loaded     bool
	byName     map[string]entities.Location
	candidates []candidate
}

func NewGazetteer(source GazetteerSource) *Gazetteer {
	return &Gazetteer{source: source}
}

// NewStaticGazetteer builds an already loaded gazetteer from the given entries.
func NewStaticGazetteer(locations []entities.Location) *Gazetteer {
	g := &Gazetteer{}
	g.build(locations)
	return g
}

// Load fetches the locations unless they are already loaded. A failed load is not
// remembered, so the next call tries again.
func (g *Gazetteer) Load(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loaded {
		return nil
	}

	locations, err := g.source.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGazetteerUnavailable, err)
	}
	if len(locations) == 0 {
		return fmt.Errorf("%w: no locations in store", ErrGazetteerUnavailable)
	}

	g.build(locations)
	log.Infof("gazetteer loaded: %d municipalities, %d names", len(locations), len(g.candidates))
	return nil
}

// Lookup returns the entry for a canonical name or alias, case-insensitively.
func (g *Gazetteer) Lookup(name string) (entities.Location, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	location, ok := g.byName[strings.ToLower(strings.TrimSpace(name))]
	return location, ok
}

func (g *Gazetteer) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.candidates)
}

// find returns the first candidate, longest name first, that occurs as a whole word.
func (g *Gazetteer) find(text textmatch.Text) (*entities.PostingLocation, bool) {
	for _, c := range g.candidates {
		start, end, ok := c.pattern.Find(text)
		if !ok {
			continue
		}
		return &entities.PostingLocation{
			MunicipalityCode: c.location.MunicipalityCode,
			LanCode:          c.location.LanCode,
			Raw:              text.Slice(start, end),
		}, true
	}
	return nil, false
}

func (g *Gazetteer) build(locations []entities.Location) {
	byName := make(map[string]entities.Location, len(locations)*2)
	for _, location := range locations {
		name := strings.ToLower(strings.TrimSpace(location.MunicipalityName))
		if name == "" {
			continue
		}
		byName[name] = location
	}

	canonical := make(map[string]struct{}, len(byName))
	for name := range byName {
		canonical[name] = struct{}{}
	}

	addAlias := func(alias, official string) {
		if alias == "" || alias == official {
			return
		}
		if _, exists := byName[alias]; exists {
			return
		}
		if location, ok := byName[official]; ok {
			byName[alias] = location
		}
	}

	for alias, official := range staticAliases {
		addAlias(alias, official)
	}
	for name := range canonical {
		addAlias(foldDiacritics(name), name)
	}

	candidates := make([]candidate, 0, len(byName))
	for name, location := range byName {
		candidates = append(candidates, candidate{
			name:     name,
			pattern:  textmatch.Compile(name),
			location: location,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		li, lj := candidates[i].pattern.Len(), candidates[j].pattern.Len()
		if li != lj {
			return li > lj
		}
		return candidates[i].name < candidates[j].name
	})

	g.byName = byName
	g.candidates = candidates
	g.loaded = true
}

// foldDiacritics strips combining marks: "malmö" -> "malmo", "västerås" -> "vasteras".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
