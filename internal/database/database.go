package database

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/graphgen/infographic-api/internal/models"
)

// Connect opens a Postgres connection using the given DSN.
func Connect(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is empty")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs schema migrations for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.GenerationLog{},
	)
}

// SeedDemoUsers creates the built-in demo accounts if they do not exist.
// Passwords here are demo credentials only, matching the development
// login screen hints.
func SeedDemoUsers(db *gorm.DB) error {
	demo := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", models.RoleAdmin},
		{"contributor", "contrib123", models.RoleContributor},
	}

	for _, d := range demo {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", d.username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		user := models.User{Username: d.username, Role: d.role}
		if err := user.SetPassword(d.password); err != nil {
			return err
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	return nil
}
