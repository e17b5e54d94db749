package audit

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	svc := NewService(auditRepo.NewRepository(db))

	t.Cleanup(func() {
		svc.Flush()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		UserID:      1,
		EventType:   entities.AuditEventImport,
		Action:      "test_import",
		Description: "Test import event",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "test_import", saved.Action)
}

func TestService_LogCreate(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogCreate(3, "word", 11, "啊")
	svc.Flush()

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "word_create").First(&event).Error)
	assert.Equal(t, uint(3), event.UserID)
	assert.Equal(t, entities.AuditEventCreate, event.EventType)
	assert.Equal(t, "Created word: 啊", event.Description)
	require.NotNil(t, event.EntityID)
	assert.Equal(t, uint(11), *event.EntityID)
}

func TestService_LogImport(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful import", func(t *testing.T) {
		svc.LogImport(1, "cli", 5, 1, nil)
		svc.Flush()

		var event entities.AuditEvent
		err := db.Where("action = ?", "cli_import").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "Imported 5 words, 1 failed", event.Description)
		assert.JSONEq(t, `{"imported":5,"failed":1}`, event.Metadata)
	})

	t.Run("failed import", func(t *testing.T) {
		svc.LogImport(1, "api", 0, 0, errors.New(strings.Repeat("x", 600)))
		svc.Flush()

		var event entities.AuditEvent
		err := db.Where("action = ?", "api_import").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Len(t, event.ErrorMsg, 500)
		assert.True(t, strings.HasSuffix(event.ErrorMsg, "..."))
	})
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogAuth(2, "login", "127.0.0.1", "curl/8.0", false)
	svc.Flush()

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "login").First(&event).Error)
	assert.Equal(t, entities.AuditStatusFailed, event.Status)
	assert.Equal(t, "127.0.0.1", event.IPAddress)
}

func TestService_GetEntityHistory(t *testing.T) {
	svc, _ := setupTestService(t)

	svc.LogCreate(1, "concept", 4, "animal")
	svc.LogCreate(1, "word", 4, "啊")
	svc.Flush()

	events, err := svc.GetEntityHistory("concept", 4)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "concept_create", events[0].Action)

	_, total, err := svc.GetEvents(auditRepo.EventFilter{EventType: entities.AuditEventCreate}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-72 * time.Hour),
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    "logout",
		Status:    entities.AuditStatusSuccess,
	}))

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	words := strings.Repeat("字", 300)
	cut := truncate(words, 500)
	assert.True(t, utf8.ValidString(cut))
	assert.LessOrEqual(t, len(cut), 500)
	assert.Equal(t, strings.Repeat("字", 165)+"...", cut)
}
