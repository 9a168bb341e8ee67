package entities

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_RawPosting_Validate(t *testing.T) {
	valid := RawPosting{ID: "1", Title: "VD", Source: "capa"}
	assert.NoError(t, valid.Validate())

	noID := valid
	noID.ID = "  "
	assert.ErrorIs(t, noID.Validate(), ErrMissingID)

	noTitle := valid
	noTitle.Title = ""
	assert.ErrorIs(t, noTitle.Validate(), ErrMissingTitle)

	noSource := valid
	noSource.Source = ""
	assert.ErrorIs(t, noSource.Validate(), ErrMissingSource)
}

func Test_Posting_WhenConvertedBack_ShouldKeepEnrichment(t *testing.T) {
	interim := Interim
	enriched := EnrichedPosting{
		RawPosting:     RawPosting{ID: "1", Title: "Interim CFO", Company: "Acme", URL: "https://x", Source: "capa"},
		Country:        "SE",
		Location:       &PostingLocation{MunicipalityCode: "0180", LanCode: "01", Raw: "Stockholm"},
		EmploymentType: &interim,
	}

	restored := NewPosting(enriched).Enriched()

	assert.Equal(t, enriched.Location, restored.Location)
	assert.Equal(t, Interim, *restored.EmploymentType)
	assert.Equal(t, "SE", restored.Country)
	code, ok := restored.LanCode()
	assert.True(t, ok)
	assert.Equal(t, "01", code)
}

func Test_Posting_WhenNoLocation_ShouldStoreNulls(t *testing.T) {
	posting := NewPosting(EnrichedPosting{RawPosting: RawPosting{ID: "1", Title: "CEO", Source: "wise"}, Country: "SE"})

	assert.Nil(t, posting.LanCode)
	assert.Nil(t, posting.MunicipalityCode)
	assert.Nil(t, posting.LocationRaw)
	assert.Nil(t, posting.EmploymentType)

	_, ok := posting.Enriched().MunicipalityCode()
	assert.False(t, ok)
}
