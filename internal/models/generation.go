package models

import (
	"time"

	"gorm.io/gorm"
)

// GenerationLog records a completed or failed generation attempt.
type GenerationLog struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Username   string         `gorm:"index;not null" json:"username"`
	Model      string         `json:"model"`
	Render     string         `json:"render"`
	Succeeded  bool           `json:"succeeded"`
	Error      string         `json:"error,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}
