package sources

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"github.com/PuerkitoBio/goquery"
	"github.com/maxaizer/job-monitor/internal/entities"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const defaultMinTitleLength = 5

// Site describes how to extract postings from one career page.
//
// With ItemSelector set, each matching element is a posting card and the first
// LinkSelector match inside it is the posting link. Otherwise every LinkSelector
// match in the page is a posting link. TitleSelector, when set, is looked up inside
// the card (or the link) and falls back to the link text.
type Site struct {
	Source  entities.Source
	Company string
	URL     string
	BaseURL string

	ItemSelector  string
	LinkSelector  string
	TitleSelector string
	// JoinTitleParts joins all TitleSelector matches with " – " instead of taking the first.
	JoinTitleParts bool

	// TitleFromSlug always derives the title from the last URL segment, minus a numeric id prefix.
	TitleFromSlug bool
	// SlugFallbackTitles are link texts that are replaced by the slug title.
	SlugFallbackTitles []string

	SkipTitles        []string
	SkipTitleContains []string
	SkipURLs          []string
	MinTitleLength    int
}

type HTMLSource struct {
	site    Site
	client  HTTPClient
	limiter *HostLimiter
}

func NewHTMLSource(site Site, client HTTPClient, limiter *HostLimiter) *HTMLSource {
	return &HTMLSource{site: site, client: client, limiter: limiter}
}

func (s *HTMLSource) Name() entities.Source {
	return s.site.Source
}

func (s *HTMLSource) Fetch(ctx context.Context) ([]entities.RawPosting, error) {
	doc, err := fetchDocument(ctx, s.client, s.limiter, s.site.URL)
	if err != nil {
		return nil, err
	}
	return s.site.Extract(doc), nil
}

// Extract reads the postings out of an already fetched page.
func (site Site) Extract(doc *goquery.Document) []entities.RawPosting {
	base, _ := url.Parse(site.BaseURL)
	seen := make(map[string]struct{})
	var postings []entities.RawPosting

	handle := func(scope, link *goquery.Selection) {
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		absolute := resolveURL(base, href)
		if site.isSkippedURL(absolute) {
			return
		}
		if _, dup := seen[absolute]; dup {
			return
		}

		title := site.title(scope, link, absolute)
		if !site.isAcceptedTitle(title) {
			return
		}
		seen[absolute] = struct{}{}

		postings = append(postings, entities.RawPosting{
			ID:      MakeID(absolute),
			Title:   title,
			Company: site.Company,
			URL:     absolute,
			Source:  site.Source,
		})
	}

	if site.ItemSelector == "" {
		doc.Find(site.LinkSelector).Each(func(_ int, link *goquery.Selection) {
			handle(link, link)
		})
		return postings
	}

	doc.Find(site.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		link := item.Find(site.LinkSelector).First()
		if link.Length() == 0 {
			return
		}
		handle(item, link)
	})
	return postings
}

func (site Site) title(scope, link *goquery.Selection, absolute string) string {
	if site.TitleFromSlug {
		return slugTitle(absolute, true)
	}

	title := ""
	if site.TitleSelector != "" {
		matches := scope.Find(site.TitleSelector)
		if site.JoinTitleParts {
			title = joinTexts(matches)
		} else if matches.Length() > 0 {
			title = cleanText(matches.First().Text())
		}
	}
	if title == "" {
		title = cleanText(link.Text())
	}

	if len(site.SlugFallbackTitles) > 0 && (title == "" || containsFold(site.SlugFallbackTitles, title)) {
		title = slugTitle(absolute, false)
	}
	return title
}

func (site Site) isAcceptedTitle(title string) bool {
	minLength := site.MinTitleLength
	if minLength == 0 {
		minLength = defaultMinTitleLength
	}
	if title == "" || utf8.RuneCountInString(title) < minLength {
		return false
	}
	if containsFold(site.SkipTitles, title) {
		return false
	}
	lower := strings.ToLower(title)
	for _, fragment := range site.SkipTitleContains {
		if strings.Contains(lower, fragment) {
			return false
		}
	}
	return true
}

func (site Site) isSkippedURL(absolute string) bool {
	normalized := strings.TrimRight(absolute, "/")
	for _, skip := range site.SkipURLs {
		if normalized == strings.TrimRight(skip, "/") {
			return true
		}
	}
	return false
}

// MakeID derives a stable posting id from its absolute URL.
func MakeID(absoluteURL string) string {
	hash := md5.Sum([]byte(absoluteURL))
	return hex.EncodeToString(hash[:])
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil || ref.IsAbs() {
		return href
	}
	return base.ResolveReference(ref).String()
}

var numericPrefix = regexp.MustCompile(`^\d+-`)

// slugTitle turns ".../jobs/3246-group-financial-controller/" into "Group Financial Controller".
func slugTitle(absolute string, stripID bool) string {
	path := absolute
	if u, err := url.Parse(absolute); err == nil {
		path = u.Path
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	slug := segments[len(segments)-1]
	if stripID {
		slug = numericPrefix.ReplaceAllString(slug, "")
	}
	return cases.Title(language.Swedish).String(strings.ReplaceAll(slug, "-", " "))
}

func joinTexts(selection *goquery.Selection) string {
	var parts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		text := cleanText(s.Text())
		if utf8.RuneCountInString(text) > 2 && !strings.EqualFold(text, "les mer om stillingen") {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " – ")
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
