package repositories

import (
	"context"
	"github.com/maxaizer/job-monitor/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Postings struct {
	db *gorm.DB
}

func NewPostingsRepository(db *gorm.DB) *Postings {
	return &Postings{db: db}
}

func (repo *Postings) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&entities.Posting{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, errors.Wrapf(err, "failed to check posting %s", id)
	}
	return count > 0, nil
}

func (repo *Postings) Upsert(ctx context.Context, posting entities.EnrichedPosting) error {
	row := entities.NewPosting(posting)
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "company", "url", "source", "country",
			"municipality_code", "lan_code", "location_raw", "employment_type", "updated_at",
		}),
	}).Create(&row).Error
	return errors.Wrapf(err, "failed to upsert posting %s", posting.ID)
}

func (repo *Postings) Get(ctx context.Context, id string) (*entities.Posting, error) {
	var posting entities.Posting
	if err := repo.db.WithContext(ctx).First(&posting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &posting, nil
}
