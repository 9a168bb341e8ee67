package entities

import (
	"errors"
	"strings"
	"time"
)

type Source string

type EmploymentType string

const (
	Interim   EmploymentType = "interim"
	Permanent EmploymentType = "permanent"
)

func ToEmploymentType(s string) (EmploymentType, error) {
	switch s {
	case string(Interim):
		return Interim, nil
	case string(Permanent):
		return Permanent, nil
	default:
		return "", errors.New("invalid employment type")
	}
}

// RawPosting is a posting as produced by a source. Description and APIEmploymentType
// are empty when the source does not expose them.
type RawPosting struct {
	ID                string
	Title             string
	Description       string
	Company           string
	URL               string
	Source            Source
	APIEmploymentType string
}

var (
	ErrMissingID     = errors.New("posting has no id")
	ErrMissingTitle  = errors.New("posting has no title")
	ErrMissingSource = errors.New("posting has no source")
)

func (p RawPosting) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrMissingTitle
	}
	if p.Source == "" {
		return ErrMissingSource
	}
	return nil
}

// PostingLocation is set as a whole from a single gazetteer entry, never partially.
type PostingLocation struct {
	MunicipalityCode string
	LanCode          string
	Raw              string
}

type EnrichedPosting struct {
	RawPosting
	Country        string
	Location       *PostingLocation
	EmploymentType *EmploymentType
}

func (p EnrichedPosting) LanCode() (string, bool) {
	if p.Location == nil {
		return "", false
	}
	return p.Location.LanCode, true
}

func (p EnrichedPosting) MunicipalityCode() (string, bool) {
	if p.Location == nil {
		return "", false
	}
	return p.Location.MunicipalityCode, true
}

func (p EnrichedPosting) LocationRaw() (string, bool) {
	if p.Location == nil {
		return "", false
	}
	return p.Location.Raw, true
}

// Posting is the stored form of an EnrichedPosting.
type Posting struct {
	ID               string `gorm:"primaryKey"`
	Title            string
	Company          string
	URL              string
	Source           Source `gorm:"index"`
	Country          string
	MunicipalityCode *string
	LanCode          *string
	LocationRaw      *string
	EmploymentType   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewPosting(p EnrichedPosting) Posting {
	posting := Posting{
		ID:      p.ID,
		Title:   p.Title,
		Company: p.Company,
		URL:     p.URL,
		Source:  p.Source,
		Country: p.Country,
	}
	if p.Location != nil {
		location := *p.Location
		posting.MunicipalityCode = &location.MunicipalityCode
		posting.LanCode = &location.LanCode
		posting.LocationRaw = &location.Raw
	}
	if p.EmploymentType != nil {
		employmentType := string(*p.EmploymentType)
		posting.EmploymentType = &employmentType
	}
	return posting
}

// Enriched restores the enrichment view of a stored posting. Description is not stored.
func (p Posting) Enriched() EnrichedPosting {
	enriched := EnrichedPosting{
		RawPosting: RawPosting{
			ID:      p.ID,
			Title:   p.Title,
			Company: p.Company,
			URL:     p.URL,
			Source:  p.Source,
		},
		Country: p.Country,
	}
	if p.MunicipalityCode != nil && p.LanCode != nil {
		location := &PostingLocation{MunicipalityCode: *p.MunicipalityCode, LanCode: *p.LanCode}
		if p.LocationRaw != nil {
			location.Raw = *p.LocationRaw
		}
		enriched.Location = location
	}
	if p.EmploymentType != nil {
		if employmentType, err := ToEmploymentType(*p.EmploymentType); err == nil {
			enriched.EmploymentType = &employmentType
		}
	}
	return enriched
}
