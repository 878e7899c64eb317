package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// FolderRepository provides access to shared folders and their subfolders
type FolderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new folder repository instance
func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// CreateSharedFolder stores a shared folder
func (r *FolderRepository) CreateSharedFolder(ctx context.Context, folder *models.SharedFolder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

// CreateFolder stores a subfolder of a shared folder
func (r *FolderRepository) CreateFolder(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

// GetSharedFolder retrieves a shared folder by its uid
func (r *FolderRepository) GetSharedFolder(ctx context.Context, uid string) (*models.SharedFolder, error) {
	var folder models.SharedFolder
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("shared folder not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shared folder: %w", err)
	}
	return &folder, nil
}

// GetFolder retrieves a subfolder by its uid
func (r *FolderRepository) GetFolder(ctx context.Context, uid string) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("folder not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return &folder, nil
}
