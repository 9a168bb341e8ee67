package platsbanken

type SearchResponse struct {
	Total struct {
		Value int `json:"value"`
	} `json:"total"`
	Hits []Hit `json:"hits"`
}

type Hit struct {
	ID             string `json:"id"`
	Headline       string `json:"headline"`
	WebpageURL     string `json:"webpage_url"`
	EmploymentType *Label `json:"employment_type"`
	Employer       struct {
		Name string `json:"name"`
	} `json:"employer"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	ApplicationDetails *struct {
		URL string `json:"url"`
	} `json:"application_details"`
	WorkplaceAddress *struct {
		Municipality     string `json:"municipality"`
		MunicipalityCode string `json:"municipality_code"`
		Region           string `json:"region"`
		RegionCode       string `json:"region_code"`
	} `json:"workplace_address"`
	PublicationDate string `json:"publication_date"`
}

type Label struct {
	ConceptID string `json:"concept_id"`
	Label     string `json:"label"`
}

func (h Hit) EmploymentTypeLabel() string {
	if h.EmploymentType == nil {
		return ""
	}
	return h.EmploymentType.Label
}

func (h Hit) ApplicationURL() string {
	if h.ApplicationDetails == nil {
		return ""
	}
	return h.ApplicationDetails.URL
}
