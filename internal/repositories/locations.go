package repositories

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/entities"
	"gorm.io/gorm"
)

type Locations struct {
	db *gorm.DB
}

func NewLocationsRepository(db *gorm.DB) *Locations {
	return &Locations{db: db}
}

func (repo *Locations) FetchAll(ctx context.Context) ([]entities.Location, error) {
	var locations []entities.Location
	if err := repo.db.WithContext(ctx).Order("municipality_code").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}
