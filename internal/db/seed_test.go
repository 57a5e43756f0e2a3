package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedAdmin(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{
		SeedAdminEmail:    "Admin@Example.com",
		SeedAdminPassword: "secret123",
		SeedAdminName:     "Admin User",
		BcryptCost:        4,
	}

	require.NoError(t, SeedAdmin(db, cfg))
	require.NoError(t, SeedAdmin(db, cfg))

	var admins []models.Employee
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)
	assert.Equal(t, string(auth.RoleAdmin), admins[0].Role)
	assert.True(t, auth.CheckPassword(admins[0].PasswordHash, "secret123"))
}

func TestSeedAdminSkippedWithoutCredentials(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedAdmin(db, &config.Config{}))

	var count int64
	db.Model(&models.Employee{}).Count(&count)
	assert.Zero(t, count)
}
