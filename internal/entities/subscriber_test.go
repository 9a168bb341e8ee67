package entities

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func Test_Subscriber_DeliveryDays_ShouldRoundTrip(t *testing.T) {
	s := Subscriber{ID: "u1"}
	s.SetDeliveryDays([]int{1, 3, 5})

	assert.Equal(t, "1,3,5", s.DeliveryDays)
	assert.Equal(t, []int{1, 3, 5}, s.DeliveryDaysAsArray())
	assert.True(t, s.DeliversOn(3))
	assert.False(t, s.DeliversOn(2))
}

func Test_Subscriber_DeliveryDays_WhenMalformed_ShouldSkipInvalid(t *testing.T) {
	s := Subscriber{ID: "u1", DeliveryDays: "1,x,9, 7"}
	assert.Equal(t, []int{1, 7}, s.DeliveryDaysAsArray())
}

func Test_Subscriber_PreferenceSet_ShouldConvertTypedLists(t *testing.T) {
	s := Subscriber{
		ID:              "u1",
		SourcesEnabled:  []string{"capa", "platsbanken"},
		EmploymentTypes: []string{"interim"},
		Regions:         []string{"01"},
	}

	prefs := s.PreferenceSet()
	assert.Equal(t, "u1", prefs.UserID)
	assert.Equal(t, []Source{"capa", "platsbanken"}, prefs.SourcesEnabled)
	assert.Equal(t, []EmploymentType{Interim}, prefs.EmploymentTypes)
	assert.Equal(t, []string{"01"}, prefs.Regions)
	assert.Empty(t, prefs.Countries)
}

func Test_ISOWeekday_ShouldMapSundayToSeven(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)

	assert.Equal(t, 7, ISOWeekday(sunday))
	assert.Equal(t, 1, ISOWeekday(monday))
}

func Test_Subscriber_IsActive(t *testing.T) {
	assert.True(t, (&Subscriber{Status: StatusTrialing}).IsActive())
	assert.False(t, (&Subscriber{Status: StatusCanceled}).IsActive())
}
