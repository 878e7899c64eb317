package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
)

// ApplicationRepository provides access to secrets manager applications
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository instance
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create stores an application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByUID retrieves an application by its uid
func (r *ApplicationRepository) GetByUID(ctx context.Context, uid string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("application not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}
