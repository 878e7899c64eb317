package repos

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// RecordRepository provides access to the typed records of the vault cache
type RecordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new record repository instance
func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create stores a new record
func (r *RecordRepository) Create(ctx context.Context, record *models.Record) error {
	if record.UID == "" {
		return fmt.Errorf("record uid is required")
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record %s: %w", record.UID, err)
	}
	return nil
}

// Update writes every column of an existing record and bumps its revision
func (r *RecordRepository) Update(ctx context.Context, record *models.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Record
		err := tx.Select("uid", "revision").Where("uid = ?", record.UID).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("record not found: %w", err)
		}
		if err != nil {
			return fmt.Errorf("failed to get record: %w", err)
		}

		record.Revision = current.Revision + 1
		if err := tx.Save(record).Error; err != nil {
			return fmt.Errorf("failed to update record %s: %w", record.UID, err)
		}
		return nil
	})
}

// GetByUID retrieves a record by its uid
func (r *RecordRepository) GetByUID(ctx context.Context, uid string) (*models.Record, error) {
	var record models.Record
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("record not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &record, nil
}

// FindByType returns the records whose type matches the regular expression, oldest first
func (r *RecordRepository) FindByType(ctx context.Context, pattern string) ([]models.Record, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid record type pattern %q: %w", pattern, err)
	}

	var types []string
	if err := r.db.WithContext(ctx).Model(&models.Record{}).Distinct().Pluck("type", &types).Error; err != nil {
		return nil, fmt.Errorf("failed to list record types: %w", err)
	}

	matched := make([]string, 0, len(types))
	for _, t := range types {
		if re.MatchString(t) {
			matched = append(matched, t)
		}
	}
	if len(matched) == 0 {
		return []models.Record{}, nil
	}

	var records []models.Record
	err = r.db.WithContext(ctx).
		Where("type IN ?", matched).
		Order("created_at ASC").Order("uid ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}
	return records, nil
}
