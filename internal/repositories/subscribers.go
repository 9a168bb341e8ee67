package repositories

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type Subscribers struct {
	db *gorm.DB
}

func NewSubscribersRepository(db *gorm.DB) *Subscribers {
	return &Subscribers{db: db}
}

func (repo *Subscribers) Add(ctx context.Context, subscriber entities.Subscriber) error {
	return repo.db.WithContext(ctx).Create(&subscriber).Error
}

// GetActive returns active and trialing subscribers.
func (repo *Subscribers) GetActive(ctx context.Context) ([]entities.Subscriber, error) {
	var subscribers []entities.Subscriber
	if err := repo.db.WithContext(ctx).
		Where("status IN ?", entities.ActiveStatuses).
		Order("id").
		Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}

// GetDigestRecipients returns active subscribers with an email address whose delivery
// days include isoWeekday.
func (repo *Subscribers) GetDigestRecipients(ctx context.Context, isoWeekday int) ([]entities.Subscriber, error) {
	subscribers, err := repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Filter(subscribers, func(s entities.Subscriber, _ int) bool {
		return s.Email != "" && s.DeliversOn(isoWeekday)
	}), nil
}

func (repo *Subscribers) UpdateStatus(ctx context.Context, id string, status entities.SubscriptionStatus) error {
	return repo.db.WithContext(ctx).Model(&entities.Subscriber{}).Where("id = ?", id).
		Update("status", status).Error
}
