package sources

import (
	"bytes"
	"context"
	"errors"
	"github.com/maxaizer/job-monitor/internal/clients/platsbanken"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"os"
	"testing"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func pageMock(t *testing.T, file string) *http.Response {
	content, err := os.ReadFile("testdata/" + file)
	require.NoError(t, err)

	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(content)),
	}
}

func siteBySource(t *testing.T, source entities.Source) Site {
	for _, site := range Sites {
		if site.Source == source {
			return site
		}
	}
	t.Fatalf("site %s not found", source)
	return Site{}
}

func requestTo(url string) any {
	return mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == url && req.Header.Get("User-Agent") != ""
	})
}

func Test_HTMLSource_WhenTitleFromSlug_ShouldStripIDAndDeduplicate(t *testing.T) {
	site := siteBySource(t, "futurevalue_rekrytering")
	client := &mockHTTPClient{}
	client.On("Do", requestTo(site.URL)).Return(pageMock(t, "futurevalue.html"), nil)

	postings, err := NewHTMLSource(site, client, nil).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, postings, 2)
	assert.Equal(t, "Group Financial Controller", postings[0].Title)
	assert.Equal(t, "https://futurevalue.se/jobs/3246-group-financial-controller/", postings[0].URL)
	assert.Equal(t, MakeID("https://futurevalue.se/jobs/3246-group-financial-controller/"), postings[0].ID)
	assert.Equal(t, "Future Value", postings[0].Company)
	assert.Equal(t, entities.Source("futurevalue_rekrytering"), postings[0].Source)
	assert.Equal(t, "Vd Till Industriforetag", postings[1].Title)
	for _, p := range postings {
		assert.NoError(t, p.Validate())
	}
}

func Test_HTMLSource_WhenItemCards_ShouldUseHeadingAsTitle(t *testing.T) {
	site := siteBySource(t, "interimsearch")
	client := &mockHTTPClient{}
	client.On("Do", requestTo(site.URL)).Return(pageMock(t, "interimsearch.html"), nil)

	postings, err := NewHTMLSource(site, client, NewHostLimiter(100, 1)).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, postings, 3)
	assert.Equal(t, "Interim CFO till fastighetsbolag", postings[0].Title)
	assert.Equal(t, "https://www.interimsearch.com/publika-uppdrag/interim-cfo-fastighet/", postings[0].URL)
	assert.Equal(t, "Interim VD, Göteborg", postings[1].Title)
	assert.Equal(t, "HR-chef", postings[2].Title)
}

func Test_HTMLSource_ShouldSkipListingPageAndGenericTitles(t *testing.T) {
	site := siteBySource(t, "gazella")
	client := &mockHTTPClient{}
	client.On("Do", requestTo(site.URL)).Return(pageMock(t, "gazella.html"), nil)

	postings, err := NewHTMLSource(site, client, nil).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, postings, 1)
	assert.Equal(t, "VD till tillväxtbolag", postings[0].Title)
	assert.Equal(t, "https://www.gazella.se/jobb/vd-tillvaxtbolag/", postings[0].URL)
}

func Test_HTMLSource_WhenStatusNotOK_ShouldFail(t *testing.T) {
	site := siteBySource(t, "capa")
	client := &mockHTTPClient{}
	client.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: 503,
		Body:       io.NopCloser(bytes.NewBufferString("unavailable")),
	}, nil)

	_, err := NewHTMLSource(site, client, nil).Fetch(context.Background())
	assert.ErrorContains(t, err, "status 503")
}

func Test_HTMLSource_WhenTransportFails_ShouldFail(t *testing.T) {
	client := &mockHTTPClient{}
	client.On("Do", mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := NewHTMLSource(siteBySource(t, "wise"), client, nil).Fetch(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func Test_Sites_ShouldHaveUniqueSourcesAndURLs(t *testing.T) {
	seen := make(map[entities.Source]bool)
	for _, site := range Sites {
		assert.False(t, seen[site.Source], "duplicate source %s", site.Source)
		seen[site.Source] = true
		assert.NotEmpty(t, site.URL)
		assert.NotEmpty(t, site.BaseURL)
		assert.NotEmpty(t, site.LinkSelector)
		assert.NotEmpty(t, site.Company)
	}
	assert.False(t, seen[PlatsbankenSource])
}

func Test_ExtractClientCompany(t *testing.T) {
	tests := []struct {
		headline string
		want     string
		ok       bool
	}{
		{headline: "VD till Acme AB", want: "Acme AB", ok: true},
		{headline: "Managing Director to LAPP!", want: "LAPP", ok: true},
		{headline: "CFO för Nordic Steel.", want: "Nordic Steel", ok: true},
		{headline: "Acme Industri söker VD", want: "Acme Industri", ok: true},
		{headline: "Acme rekryterar CFO", want: "Acme", ok: true},
		{headline: "Välkommen till oss", ok: false},
		{headline: "Försäljningsdirektör", ok: false},
		{headline: "Interim CFO", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.headline, func(t *testing.T) {
			got, ok := ExtractClientCompany(tt.headline)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_CleanApplyURL_ShouldRemoveTrackingParams(t *testing.T) {
	assert.Equal(t, "https://jobs.example.se/jobs/1?lang=sv",
		CleanApplyURL("https://jobs.example.se/jobs/1?pnty_src=arbetsformedlingen&utm_source=af&lang=sv"))
	assert.Equal(t, "https://jobs.example.se/jobs/1",
		CleanApplyURL("https://jobs.example.se/jobs/1?utm_campaign=x"))
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, parameters platsbanken.SearchParameters) (platsbanken.SearchResponse, error) {
	args := m.Called(ctx, parameters)
	return args.Get(0).(platsbanken.SearchResponse), args.Error(1)
}

func hits(h ...platsbanken.Hit) platsbanken.SearchResponse {
	return platsbanken.SearchResponse{Hits: h}
}

func agencyHit() platsbanken.Hit {
	hit := platsbanken.Hit{
		ID:             "1",
		Headline:       "VD till Nordic Steel AB",
		WebpageURL:     "https://arbetsformedlingen.se/platsbanken/annonser/1",
		EmploymentType: &platsbanken.Label{Label: "Tillsvidare"},
	}
	hit.Employer.Name = "Executive Partners AB"
	hit.Description.Text = "Placering i Göteborg."
	hit.ApplicationDetails = &struct {
		URL string `json:"url"`
	}{URL: "https://jobs.executivepartners.se/jobs/1?pnty_src=arbetsformedlingen"}
	return hit
}

func directHit() platsbanken.Hit {
	hit := platsbanken.Hit{ID: "2", Headline: "Försäljningsdirektör"}
	hit.Employer.Name = "Acme Industri AB"
	hit.ApplicationDetails = &struct {
		URL string `json:"url"`
	}{URL: "https://arbetsformedlingen.se/platsbanken/annonser/2/ansok?utm_source=x"}
	for i := 0; i < 600; i++ {
		hit.Description.Text += "ö"
	}
	return hit
}

func Test_Platsbanken_Fetch_ShouldMapHitsAndDeduplicate(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, platsbanken.SearchParameters{Query: "VD", Limit: 50}).
		Return(hits(agencyHit(), directHit()), nil)
	searcher.On("Search", mock.Anything, platsbanken.SearchParameters{Query: "CEO", Limit: 50}).
		Return(hits(agencyHit()), nil)

	postings, err := NewPlatsbanken(searcher, []string{"VD", "CEO"}, 50).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	agency := postings[0]
	assert.Equal(t, "1", agency.ID)
	assert.Equal(t, "Nordic Steel AB", agency.Company)
	assert.Equal(t, "https://jobs.executivepartners.se/jobs/1", agency.URL)
	assert.Equal(t, "Tillsvidare", agency.APIEmploymentType)
	assert.Equal(t, PlatsbankenSource, agency.Source)

	direct := postings[1]
	assert.Equal(t, "Acme Industri AB", direct.Company)
	assert.Equal(t, "https://arbetsformedlingen.se/platsbanken/annonser/2", direct.URL)
	assert.Equal(t, 500, len([]rune(direct.Description)))
	assert.Empty(t, direct.APIEmploymentType)
}

func Test_Platsbanken_Fetch_WhenSomeSearchesFail_ShouldReturnRest(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, platsbanken.SearchParameters{Query: "VD", Limit: 10}).
		Return(platsbanken.SearchResponse{}, errors.New("timeout"))
	searcher.On("Search", mock.Anything, platsbanken.SearchParameters{Query: "CEO", Limit: 10}).
		Return(hits(directHit()), nil)

	postings, err := NewPlatsbanken(searcher, []string{"VD", "CEO"}, 10).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, postings, 1)
}

func Test_Platsbanken_Fetch_WhenAllSearchesFail_ShouldFail(t *testing.T) {
	searcher := &mockSearcher{}
	searcher.On("Search", mock.Anything, mock.Anything).Return(platsbanken.SearchResponse{}, errors.New("timeout"))

	_, err := NewPlatsbanken(searcher, []string{"VD", "CEO"}, 10).Fetch(context.Background())
	assert.ErrorContains(t, err, "timeout")
}

func Test_Build_ShouldFilterEnabledSources(t *testing.T) {
	pb := NewPlatsbanken(&mockSearcher{}, nil, 10)

	all := Build(nil, &mockHTTPClient{}, nil, pb)
	assert.Len(t, all, len(Sites)+1)

	some := Build([]string{"capa", "platsbanken", "unknown"}, &mockHTTPClient{}, nil, pb)
	require.Len(t, some, 2)
	assert.Equal(t, entities.Source("capa"), some[0].Name())
	assert.Equal(t, PlatsbankenSource, some[1].Name())
}
