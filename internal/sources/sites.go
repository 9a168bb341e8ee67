package sources

const teamtailorTitle = "span.text-block-base-link, [class*='text-block-base']"

// Sites lists the executive-search agencies scraped from their public career pages.
var Sites = []Site{
	{
		Source: "capa", Company: "CAPA",
		URL: "https://www.capa.se/tjanster-uppdrag", BaseURL: "https://www.capa.se",
		LinkSelector: "a[href*='uppdrag'], a[href*='tjanst']", MinTitleLength: 1,
	},
	{
		Source: "interimsearch", Company: "Interim Search",
		URL: "https://www.interimsearch.com/publika-uppdrag/", BaseURL: "https://www.interimsearch.com",
		ItemSelector: "article, .job, .uppdrag, .assignment", LinkSelector: "a[href]",
		TitleSelector: "h2, h3, h4", MinTitleLength: 1,
	},
	{
		Source: "wise", Company: "Wise",
		URL: "https://www.wise.se/lediga-jobb/", BaseURL: "https://www.wise.se",
		LinkSelector: "a[href*='/jobb/'], a[href*='/job/'], a[href*='/lediga']",
	},
	{
		Source: "headagent", Company: "Head Agent",
		URL: "https://www.headagent.se/uppdrag/", BaseURL: "https://www.headagent.se",
		LinkSelector: "a[href*='uppdrag']",
	},
	{
		Source: "michaelberglund", Company: "Michael Berglund",
		URL: "https://michaelberglund.se/executive-search/", BaseURL: "https://michaelberglund.se",
		LinkSelector: "a[href*='search'], a[href*='jobb'], a[href*='uppdrag']",
	},
	{
		Source: "mason", Company: "Mason",
		URL: "https://mason.se/alla-case/", BaseURL: "https://mason.se",
		LinkSelector: "a[href*='case'], a[href*='jobb'], a[href*='uppdrag']",
	},
	{
		Source: "hammerhanborg", Company: "Hammer & Hanborg",
		URL: "https://jobb.hammerhanborg.se/jobs", BaseURL: "https://jobb.hammerhanborg.se",
		LinkSelector: "a[href*='/jobs/']",
	},
	{
		Source: "novare", Company: "Novare",
		URL: "https://novare.se/executive-search/lediga-jobb/", BaseURL: "https://novare.se",
		LinkSelector: "a[href*='jobb'], a[href*='job'], a[href*='search']",
	},
	{
		Source: "wes", Company: "Wes",
		URL: "https://wesgroup.se/for-kandidater/", BaseURL: "https://wesgroup.se",
		LinkSelector: "a[href*='intelliplan']", SkipTitleContains: []string{"registrera", "cv"},
	},
	{
		Source: "stardust", Company: "Stardust Search",
		URL: "https://stardust.teamtailor.com/jobs", BaseURL: "https://stardust.teamtailor.com",
		LinkSelector: "a[href*='/jobs/']",
	},
	{
		Source: "academicsearch", Company: "Academic Search",
		URL: "https://academicsearch.se/en/job-vacancies/", BaseURL: "https://www.academicsearch.se",
		LinkSelector: "a[href*='/en/job/']", TitleSelector: "h2, h3, h4, h5, strong",
	},
	{
		Source: "signpost", Company: "Signpost",
		URL: "https://signpost.se/lediga-chefsjobb/", BaseURL: "https://signpost.se",
		LinkSelector: "a[href*='/lediga-uppdrag/']", TitleSelector: "h1, h2, h3, h4, h5",
	},
	{
		Source: "inhouse", Company: "Inhouse",
		URL: "https://inhouse.se/jobb/", BaseURL: "https://www.inhouse.se",
		LinkSelector:       "a[href*='/jobb/']",
		SlugFallbackTitles: []string{"lediga jobb", "läs mer"},
		SkipURLs:           []string{"https://www.inhouse.se/jobb", "https://inhouse.se/jobb"},
	},
	{
		Source: "peopleprovide", Company: "PeopleProvide",
		URL: "https://career.peopleprovide.se/jobs", BaseURL: "https://career.peopleprovide.se",
		LinkSelector: "a[href*='/jobs/']", TitleSelector: teamtailorTitle,
	},
	{
		Source: "futurevalue_rekrytering", Company: "Future Value",
		URL: "https://futurevalue.se/publika-rekryteringar/", BaseURL: "https://futurevalue.se",
		LinkSelector: "a[href*='/jobs/']", TitleFromSlug: true,
	},
	{
		Source: "futurevalue_interim", Company: "Future Value",
		URL: "https://futurevalue.se/publika-interimsuppdrag/", BaseURL: "https://futurevalue.se",
		LinkSelector: "a[href*='/jobs/']", TitleFromSlug: true,
	},
	{
		Source: "avanti", Company: "Avanti Rekrytering",
		URL: "https://avantirekrytering.se/publika-uppdrag/", BaseURL: "https://avantirekrytering.se",
		LinkSelector: "a[href*='/jobs/']", SkipTitles: []string{"visa tjänst"},
	},
	{
		Source: "pooliaexecutive", Company: "Poolia Executive",
		URL: "https://pooliaexecutivesearch.teamtailor.com/jobs", BaseURL: "https://pooliaexecutivesearch.teamtailor.com",
		LinkSelector: "a[href*='/jobs/']",
	},
	{
		Source: "nigel_wright", Company: "Nigel Wright",
		URL: "https://www.nigelwright.com/se/vacancies", BaseURL: "https://www.nigelwright.com",
		LinkSelector: "a[href*='/vacancy/'], a[href*='/vacancies/']",
	},
	{
		Source: "gazella", Company: "Gazella",
		URL: "https://gazella.se/jobb/", BaseURL: "https://www.gazella.se",
		LinkSelector: "a[href*='/jobb/']", TitleSelector: "p.u-text-bold, [class*='u-text-bold']",
		SkipTitles: []string{"lediga jobb", "se alla", "alla jobb"},
		SkipURLs:   []string{"https://www.gazella.se/jobb", "https://gazella.se/jobb"},
	},
	{
		Source: "alumni", Company: "Alumni",
		URL: "https://alumniglobal.com/open-positions", BaseURL: "https://alumniglobal.com",
		ItemSelector: ".summary-item", LinkSelector: "a[href]", TitleSelector: ".summary-title",
	},
	{
		Source: "properpeople", Company: "Proper People",
		URL: "https://properpeople.teamtailor.com/jobs", BaseURL: "https://properpeople.teamtailor.com",
		LinkSelector: "a[href*='/jobs/']", TitleSelector: teamtailorTitle,
	},
	{
		Source: "jobway", Company: "Jobway",
		URL: "https://jobway.se/lediga-jobb/chef/", BaseURL: "https://jobway.se",
		ItemSelector: ".e-loop-item", LinkSelector: "a[href]", TitleSelector: "h2, h3, h4",
	},
	{
		Source: "beyondretail", Company: "Beyond Retail",
		URL: "https://beyondretail.se/lediga-jobb/", BaseURL: "https://beyondretail.se",
		LinkSelector: "a[href*='/jobs/'], a[href*='/lediga-jobb/']", TitleSelector: ".job-listing-position",
		SkipURLs: []string{"https://beyondretail.se/lediga-jobb"},
	},
	{
		Source: "bonesvirik", Company: "Bønes Virik",
		URL: "https://bonesvirik.no/utlyste-stillinger/", BaseURL: "https://bonesvirik.no",
		ItemSelector: "article, .stilling, .job, .card, .listing, .vacancy", LinkSelector: "a[href*='apply.recman.no']",
		TitleSelector: "h2, h3, h4, strong, b", JoinTitleParts: true,
		SkipTitleContains: []string{"registrer", "logg inn"},
	},
	{
		Source: "visindi", Company: "Visindi",
		URL: "https://visindi.no/en/vacancies", BaseURL: "https://visindi.no",
		LinkSelector: "a[href*='/vacancy/'], a[href*='/vacancies/']",
	},
	{
		Source: "vindex", Company: "Vindex",
		URL: "https://vindex.se/jobb/", BaseURL: "https://vindex.se",
		LinkSelector: "a[href*='/jobb/']", SkipURLs: []string{"https://vindex.se/jobb"},
	},
}
