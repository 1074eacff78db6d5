package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rottenbot/inference-service/models"
)

// PredictionStore persists prediction records.
type PredictionStore interface {
	Create(ctx context.Context, p *models.Prediction) error
}

// GormPredictionStore writes prediction records through gorm.
type GormPredictionStore struct {
	db *gorm.DB
}

// NewGormPredictionStore creates a store over an initialized gorm DB.
func NewGormPredictionStore(db *gorm.DB) *GormPredictionStore {
	return &GormPredictionStore{db: db}
}

// Create inserts one prediction record.
func (s *GormPredictionStore) Create(ctx context.Context, p *models.Prediction) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert prediction %s: %w", p.ImagePath, err)
	}
	return nil
}
