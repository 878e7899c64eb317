package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// SyncStateRepository tracks whether the vault cache has local changes waiting for a sync
type SyncStateRepository struct {
	db *gorm.DB
}

// NewSyncStateRepository creates a new sync state repository instance
func NewSyncStateRepository(db *gorm.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

// MarkDirty flags the cache for resync
func (r *SyncStateRepository) MarkDirty(ctx context.Context) error {
	state := models.SyncState{ID: models.SyncStateID, Dirty: true, MarkedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"dirty", "marked_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("failed to mark vault dirty: %w", err)
	}
	return nil
}

// IsDirty reports whether the cache has been marked for resync
func (r *SyncStateRepository) IsDirty(ctx context.Context) (bool, error) {
	var state models.SyncState
	err := r.db.WithContext(ctx).Where("id = ?", models.SyncStateID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get sync state: %w", err)
	}
	return state.Dirty, nil
}

// Clear resets the marker after a successful sync
func (r *SyncStateRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&models.SyncState{}).
		Where("id = ?", models.SyncStateID).
		Update("dirty", false).Error
}
