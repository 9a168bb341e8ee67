package repositories

import (
	"embed"
	"encoding/csv"
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/maxaizer/job-monitor/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"io"
)

//go:embed seed/municipalities.csv
var seedFS embed.FS

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	models := []struct {
		name  string
		model any
	}{
		{"Location", entities.Location{}},
		{"Posting", entities.Posting{}},
		{"Subscriber", entities.Subscriber{}},
		{"QueueEntry", entities.QueueEntry{}},
		{"SourceStatus", entities.SourceStatus{}},
	}

	for _, m := range models {
		if err := c.DB.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("failed to migrate %s entity: %w", m.name, err)
		}
	}

	var locationsCount int64
	if err := c.DB.Model(entities.Location{}).Count(&locationsCount).Error; err != nil {
		return fmt.Errorf("failed to count locations: %w", err)
	}

	if locationsCount == 0 {
		if err := c.PopulateLocations(); err != nil {
			return fmt.Errorf("failed to populate locations: %w", err)
		}
	}

	return nil
}

// PopulateLocations seeds the gazetteer with the Swedish municipalities (SCB codes).
func (c *DbContext) PopulateLocations() error {
	file, err := seedFS.Open("seed/municipalities.csv")
	if err != nil {
		return err
	}
	defer file.Close()

	locations, err := readLocations(file)
	if err != nil {
		return fmt.Errorf("failed to read municipalities: %w", err)
	}

	if err = c.DB.CreateInBatches(locations, 100).Error; err != nil {
		return fmt.Errorf("failed to create locations in the database: %w", err)
	}
	return nil
}

func readLocations(r io.Reader) ([]entities.Location, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no municipalities in seed")
	}

	locations := make([]entities.Location, 0, len(records)-1)
	for _, record := range records[1:] {
		locations = append(locations, entities.Location{
			MunicipalityCode: record[0],
			MunicipalityName: record[1],
			LanCode:          record[2],
			LanName:          record[3],
		})
	}
	return locations, nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
