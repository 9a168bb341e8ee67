package entities

import (
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"strconv"
	"strings"
	"time"
)

type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past_due"
)

// ActiveStatuses are the statuses that receive matches and digests.
var ActiveStatuses = []SubscriptionStatus{StatusActive, StatusTrialing}

// PreferenceSet holds one subscriber's matching criteria. An empty list leaves its
// dimension unrestricted.
type PreferenceSet struct {
	UserID          string           `validate:"required"`
	Countries       []string         `validate:"dive,len=2,alpha"`
	SourcesEnabled  []Source         `validate:"dive,required"`
	KeywordsInclude []string         `validate:"dive,required"`
	KeywordsExclude []string         `validate:"dive,required"`
	Regions         []string         `validate:"dive,len=2,numeric"`
	Municipalities  []string         `validate:"dive,len=4,numeric"`
	EmploymentTypes []EmploymentType `validate:"dive,oneof=interim permanent"`
}

type Subscriber struct {
	ID              string `gorm:"primaryKey"`
	Email           string
	Status          SubscriptionStatus `gorm:"index"`
	TelegramChatID  *int64
	DeliveryDays    string
	Countries       []string `gorm:"serializer:json"`
	SourcesEnabled  []string `gorm:"serializer:json"`
	KeywordsInclude []string `gorm:"serializer:json"`
	KeywordsExclude []string `gorm:"serializer:json"`
	Regions         []string `gorm:"serializer:json"`
	Municipalities  []string `gorm:"serializer:json"`
	EmploymentTypes []string `gorm:"serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *Subscriber) PreferenceSet() PreferenceSet {
	return PreferenceSet{
		UserID:          s.ID,
		Countries:       s.Countries,
		SourcesEnabled:  lo.Map(s.SourcesEnabled, func(item string, _ int) Source { return Source(item) }),
		KeywordsInclude: s.KeywordsInclude,
		KeywordsExclude: s.KeywordsExclude,
		Regions:         s.Regions,
		Municipalities:  s.Municipalities,
		EmploymentTypes: lo.Map(s.EmploymentTypes, func(item string, _ int) EmploymentType {
			return EmploymentType(item)
		}),
	}
}

// SetDeliveryDays stores ISO weekdays (1 = Monday ... 7 = Sunday).
func (s *Subscriber) SetDeliveryDays(days []int) {
	s.DeliveryDays = strings.Join(lo.Map(days, func(day int, _ int) string {
		return strconv.Itoa(day)
	}), ",")
}

func (s *Subscriber) DeliveryDaysAsArray() []int {
	if s.DeliveryDays == "" {
		return []int{}
	}

	return lo.FilterMap(strings.Split(s.DeliveryDays, ","), func(item string, _ int) (int, bool) {
		day, err := strconv.Atoi(strings.TrimSpace(item))
		if err != nil || day < 1 || day > 7 {
			log.Errorf("invalid delivery day %q for subscriber %v", item, s.ID)
			return 0, false
		}
		return day, true
	})
}

func (s *Subscriber) DeliversOn(isoWeekday int) bool {
	return lo.Contains(s.DeliveryDaysAsArray(), isoWeekday)
}

func (s *Subscriber) IsActive() bool {
	return lo.Contains(ActiveStatuses, s.Status)
}

// ISOWeekday maps time.Weekday to 1 = Monday ... 7 = Sunday.
func ISOWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}
