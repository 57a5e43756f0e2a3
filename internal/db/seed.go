package db

import (
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

// SeedAdmin creates the bootstrap admin when SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD are set and no employee owns that email yet.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var existing models.Employee
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := models.Employee{
		Name:         cfg.SeedAdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         string(auth.RoleAdmin),
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	slog.Info("seeded admin employee", "email", email, "id", admin.ID)
	return nil
}
