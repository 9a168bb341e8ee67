package sources

import (
	"context"
	"fmt"
	"github.com/maxaizer/job-monitor/internal/clients/platsbanken"
	"github.com/maxaizer/job-monitor/internal/entities"
	log "github.com/sirupsen/logrus"
	"net/url"
	"regexp"
	"strings"
)

const (
	PlatsbankenSource         entities.Source = "platsbanken"
	platsbankenListingURL                     = "https://arbetsformedlingen.se/platsbanken/annonser/"
	platsbankenDescriptionLen                 = 500
)

var trackingParams = map[string]struct{}{
	"pnty_src":     {},
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_content":  {},
	"utm_term":     {},
}

var (
	// "VD till Acme AB", "Managing Director to LAPP"
	clientAfterRe = regexp.MustCompile(`(?i)(?:^|\s)(?:till|to|för|for|hos|at)\s+(.+)`)
	// "Acme söker VD", "Acme rekryterar CFO"
	clientBeforeRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:rekryterar|söker|anställer|seeks|hiring|hires)\s+`)

	clientSkipWords = map[string]struct{}{
		"oss": {}, "en": {}, "ett": {}, "dig": {}, "er": {}, "dem": {}, "vår": {}, "ditt": {},
	}
)

type platsbankenSearcher interface {
	Search(ctx context.Context, parameters platsbanken.SearchParameters) (platsbanken.SearchResponse, error)
}

// Platsbanken searches the JobTech job-search API once per keyword.
type Platsbanken struct {
	client   platsbankenSearcher
	keywords []string
	limit    int
}

func NewPlatsbanken(client platsbankenSearcher, keywords []string, limit int) *Platsbanken {
	return &Platsbanken{client: client, keywords: keywords, limit: limit}
}

func (p *Platsbanken) Name() entities.Source {
	return PlatsbankenSource
}

// Fetch fails only when every keyword search failed.
func (p *Platsbanken) Fetch(ctx context.Context) ([]entities.RawPosting, error) {
	seen := make(map[string]struct{})
	var postings []entities.RawPosting
	var lastErr error
	failed := 0

	for _, keyword := range p.keywords {
		response, err := p.client.Search(ctx, platsbanken.SearchParameters{Query: keyword, Limit: p.limit})
		if err != nil {
			log.Warnf("platsbanken search for %q failed: %v", keyword, err)
			lastErr = err
			failed++
			continue
		}

		for _, hit := range response.Hits {
			if _, dup := seen[hit.ID]; dup {
				continue
			}
			seen[hit.ID] = struct{}{}
			postings = append(postings, postingFromHit(hit))
		}
	}

	if failed > 0 && failed == len(p.keywords) {
		return nil, fmt.Errorf("all %d platsbanken searches failed, last error: %w", failed, lastErr)
	}
	return postings, nil
}

// postingFromHit uses the client company and the agency's own page for postings
// published by a recruitment firm on behalf of a client.
func postingFromHit(hit platsbanken.Hit) entities.RawPosting {
	company := hit.Employer.Name
	postingURL := hit.WebpageURL
	if postingURL == "" {
		postingURL = platsbankenListingURL + hit.ID
	}

	if applyURL := hit.ApplicationURL(); isAgencyURL(applyURL) {
		if client, ok := ExtractClientCompany(hit.Headline); ok {
			company = client
		}
		postingURL = CleanApplyURL(applyURL)
	}

	return entities.RawPosting{
		ID:                hit.ID,
		Title:             hit.Headline,
		Description:       truncate(hit.Description.Text, platsbankenDescriptionLen),
		Company:           company,
		URL:               postingURL,
		Source:            PlatsbankenSource,
		APIEmploymentType: hit.EmploymentTypeLabel(),
	}
}

// isAgencyURL checks the domain, since tracking parameters may mention arbetsformedlingen too.
func isAgencyURL(applyURL string) bool {
	if applyURL == "" {
		return false
	}
	u, err := url.Parse(applyURL)
	if err != nil || u.Host == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(u.Host), "arbetsformedlingen")
}

// ExtractClientCompany finds the client in a recruiter headline such as
// "VD till Acme" or "Acme söker VD".
func ExtractClientCompany(headline string) (string, bool) {
	if m := clientAfterRe.FindStringSubmatch(headline); m != nil {
		company := strings.TrimRight(strings.TrimSpace(m[1]), "!.?")
		if len([]rune(company)) >= 2 {
			if _, skip := clientSkipWords[strings.ToLower(company)]; !skip {
				return company, true
			}
		}
	}

	if m := clientBeforeRe.FindStringSubmatch(headline); m != nil {
		company := strings.TrimRight(strings.TrimSpace(m[1]), "!.?")
		if len([]rune(company)) >= 2 {
			return company, true
		}
	}

	return "", false
}

// CleanApplyURL drops pnty_src and utm_* tracking parameters.
func CleanApplyURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := u.Query()
	for param := range query {
		if _, tracking := trackingParams[param]; tracking {
			query.Del(param)
		}
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
