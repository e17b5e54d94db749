package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/database"
	"github.com/mrlokans/lexicon/internal/entities"
)

type recordedEvent struct {
	UserID     uint
	EntityType string
	EntityID   uint
	Name       string
}

type recordingAudit struct {
	mu      sync.Mutex
	created []recordedEvent
	imports []ImportResult
}

func (r *recordingAudit) LogCreate(userID uint, entityType string, entityID uint, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, recordedEvent{UserID: userID, EntityType: entityType, EntityID: entityID, Name: name})
}

func (r *recordingAudit) LogImport(userID uint, source string, imported, failed int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append(r.imports, ImportResult{Imported: imported, Failed: failed})
}

type testEnv struct {
	db       *gorm.DB
	audit    *recordingAudit
	users    *UserService
	words    *WordItemService
	concepts *ConceptService
	pos      *PartOfSpeechService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "services.db")

	db, err := gorm.Open(sqlite.Open(database.DSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedPartsOfSpeech(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	rec := &recordingAudit{}
	users := NewUserService(db, rec)
	return &testEnv{
		db:       db,
		audit:    rec,
		users:    users,
		words:    NewWordItemService(db, users, rec),
		concepts: NewConceptService(db, users, rec),
		pos:      NewPartOfSpeechService(db),
	}
}

// loginAs stores a user with the given email and returns a context carrying it.
func (e *testEnv) loginAs(t *testing.T, email string) (context.Context, *entities.User) {
	t.Helper()
	user := &entities.User{Email: email}
	require.NoError(t, e.users.AddUser(context.Background(), user))
	return auth.WithPrincipal(context.Background(), email), user
}

func newWord(name string, pinyin string, tags ...string) *entities.WordItem {
	item := &entities.WordItem{Name: name, Pinyins: []entities.Pinyin{{Name: pinyin}}}
	for i, tag := range tags {
		item.WordFreqs = append(item.WordFreqs, entities.WordFreq{
			Freq:         i + 1,
			PartOfSpeech: entities.PartOfSpeech{Name: tag},
		})
	}
	return item
}

func (e *testEnv) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
