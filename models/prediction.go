package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prediction is one archived inference outcome. Rows are written only by the
// background recorder after a successful prediction and are never updated or
// deleted by this service.
type Prediction struct {
	UID                string    `gorm:"type:char(36);primaryKey" json:"uid"`
	ImagePath          string    `gorm:"size:512;not null;uniqueIndex" json:"image_path"`
	PredictedClass     int       `gorm:"not null" json:"predicted_class"`
	PredictedClassName string    `gorm:"size:255;not null" json:"predicted_class_name"`
	Confidence         float64   `gorm:"not null" json:"confidence"`
	UserUID            string    `gorm:"type:char(36);not null;index" json:"user_uid"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName keeps the table name shared with the rest of the platform.
func (Prediction) TableName() string {
	return "predictions"
}

// BeforeCreate hook generates the record identifier and timestamp when not provided.
func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.UID == "" {
		p.UID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}
