package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/entities"
)

const testPassword = "correct-horse-battery"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func testAuthConfig(mode config.AuthMode) config.Auth {
	return config.Auth{
		Mode:             mode,
		SessionLifetime:  time.Hour,
		TokenExpiry:      time.Hour,
		BcryptCost:       4,
		SecureCookies:    false,
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}
}

func setupService(t *testing.T, mode config.AuthMode) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(db, testAuthConfig(mode)), db
}

func createUser(t *testing.T, svc *Service, email string, role entities.UserRole) *entities.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), "", email, testPassword, role)
	require.NoError(t, err)
	return user
}
