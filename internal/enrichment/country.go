package enrichment

import (
	"github.com/maxaizer/job-monitor/internal/entities"
	"strings"
)

const DefaultCountry = "SE"

var defaultSourceCountries = map[entities.Source]string{
	"nigel_wright": "DK",
	"bonesvirik":   "NO",
	"visindi":      "NO",
}

// CountryTable maps a source to the ISO-2 country of its postings.
type CountryTable struct {
	countries map[entities.Source]string
}

// NewCountryTable starts from the built-in table and applies overrides on top of it.
func NewCountryTable(overrides map[string]string) CountryTable {
	countries := make(map[entities.Source]string, len(defaultSourceCountries)+len(overrides))
	for source, country := range defaultSourceCountries {
		countries[source] = country
	}
	for source, country := range overrides {
		countries[entities.Source(strings.ToLower(source))] = strings.ToUpper(country)
	}
	return CountryTable{countries: countries}
}

func (t CountryTable) CountryOf(source entities.Source) string {
	if country, ok := t.countries[source]; ok && country != "" {
		return country
	}
	return DefaultCountry
}
