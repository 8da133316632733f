package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/graphgen/infographic-api/internal/models"
)

// ErrUsageLimitReached is returned when a capped account has exhausted
// its generation allowance.
var ErrUsageLimitReached = fmt.Errorf(
	"Usage limit reached. Contributor accounts are limited to %d generations.",
	models.ContributorGenerationCap,
)

// Usage is the per-account generation usage snapshot.
type Usage struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`     // -1 for unlimited
	Remaining int    `json:"remaining"` // -1 for unlimited
}

// UsageService tracks per-account generation counts and enforces the
// contributor cap. With a database it persists counts on the user row;
// without one it keeps an in-memory cache so the demo deployment still
// enforces limits within a process lifetime.
type UsageService struct {
	db *gorm.DB

	mu    sync.Mutex
	cache map[string]int
}

func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{
		db:    db,
		cache: make(map[string]int),
	}
}

// Get returns the usage snapshot for a user.
func (s *UsageService) Get(username, role string) (*Usage, error) {
	used, err := s.usedCount(username)
	if err != nil {
		return nil, err
	}

	u := &Usage{
		Username: username,
		Role:     role,
		Used:     used,
	}
	if models.HasUnlimitedGenerations(role) {
		u.Limit = -1
		u.Remaining = -1
	} else {
		u.Limit = models.ContributorGenerationCap
		u.Remaining = models.ContributorGenerationCap - used
		if u.Remaining < 0 {
			u.Remaining = 0
		}
	}
	return u, nil
}

// CheckAllowance returns ErrUsageLimitReached when a capped account has
// no generations left. Unlimited roles always pass.
func (s *UsageService) CheckAllowance(username, role string) error {
	if models.HasUnlimitedGenerations(role) {
		return nil
	}
	used, err := s.usedCount(username)
	if err != nil {
		return err
	}
	if used >= models.ContributorGenerationCap {
		return ErrUsageLimitReached
	}
	return nil
}

// Increment records one completed generation. Only successful
// generations count against the cap.
func (s *UsageService) Increment(username string) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cache[username]++
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the row to prevent race conditions
		var user models.User
		if err := tx.Raw("SELECT * FROM users WHERE username = ? FOR UPDATE", username).
			Scan(&user).Error; err != nil {
			return err
		}
		if user.Username == "" {
			return fmt.Errorf("user %q not found", username)
		}

		user.UsedCount++
		return tx.Save(&user).Error
	})
}

// LogGeneration records a generation attempt for analytics. Without a
// database this is a no-op.
func (s *UsageService) LogGeneration(username, model, render string, succeeded bool, genErr string, duration time.Duration) error {
	if s.db == nil {
		return nil
	}
	return s.db.Create(&models.GenerationLog{
		Username:   username,
		Model:      model,
		Render:     render,
		Succeeded:  succeeded,
		Error:      genErr,
		DurationMS: duration.Milliseconds(),
	}).Error
}

// UsageStats summarizes a user's generation history.
type UsageStats struct {
	Username      string `json:"username"`
	Total         int64  `json:"total"`
	Succeeded     int64  `json:"succeeded"`
	Failed        int64  `json:"failed"`
	AvgDurationMS int64  `json:"avg_duration_ms"`
}

// Stats aggregates the generation log for a user. Without a database
// only the locally counted successes are available.
func (s *UsageService) Stats(username string) (*UsageStats, error) {
	stats := &UsageStats{Username: username}

	if s.db == nil {
		s.mu.Lock()
		stats.Total = int64(s.cache[username])
		stats.Succeeded = stats.Total
		s.mu.Unlock()
		return stats, nil
	}

	if err := s.db.Model(&models.GenerationLog{}).
		Where("username = ?", username).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.GenerationLog{}).
		Where("username = ? AND succeeded = ?", username, true).
		Count(&stats.Succeeded).Error; err != nil {
		return nil, err
	}
	stats.Failed = stats.Total - stats.Succeeded

	var avg *float64
	if err := s.db.Model(&models.GenerationLog{}).
		Where("username = ?", username).
		Select("AVG(duration_ms)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AvgDurationMS = int64(*avg)
	}
	return stats, nil
}

// ResetUsage zeroes a user's counted generations.
func (s *UsageService) ResetUsage(username string) error {
	if s.db == nil {
		s.mu.Lock()
		delete(s.cache, username)
		s.mu.Unlock()
		return nil
	}
	return s.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("used_count", 0).Error
}

func (s *UsageService) usedCount(username string) (int, error) {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.cache[username], nil
	}

	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return user.UsedCount, nil
}
