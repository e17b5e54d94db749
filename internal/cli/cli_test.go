package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexicon/internal/database"
	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/services"
)

func writeLexicon(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createUser(t *testing.T, dbPath, email, password string) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCreateUserCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-email", email, "-password", password}))
	require.NoError(t, cmd.Run())
	return &out
}

func TestCreateUserCommand_ParseFlags(t *testing.T) {
	cmd := NewCreateUserCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-email", "a@example.com"}))
	assert.Equal(t, "editor", cmd.Role)

	assert.Error(t, NewCreateUserCommand().ParseFlags(nil))
}

func TestCreateUserCommand_Run(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "4")
	dbPath := filepath.Join(t.TempDir(), "lexicon.db")

	out := createUser(t, dbPath, "plain@example.com", "")
	assert.Contains(t, out.String(), "Created editor user plain@example.com")

	out = createUser(t, dbPath, "login@example.com", "correct-horse-battery")
	assert.Contains(t, out.String(), "login@example.com")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var user entities.User
	require.NoError(t, db.DB.Where("email = ?", "login@example.com").First(&user).Error)
	assert.NotEmpty(t, user.PasswordHash)

	var events int64
	require.NoError(t, db.DB.Model(&entities.AuditEvent{}).Where("entity_type = ?", "user").Count(&events).Error)
	assert.Equal(t, int64(2), events)
}

func TestCreateUserCommand_Duplicate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lexicon.db")
	createUser(t, dbPath, "dup@example.com", "")

	cmd := NewCreateUserCommand()
	cmd.Out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-email", "dup@example.com"}))

	err := cmd.Run()

	assert.True(t, errors.Is(err, services.ErrConflict))
}

func TestImportLexiconCommand_ParseFlags(t *testing.T) {
	assert.Error(t, NewImportLexiconCommand().ParseFlags(nil))

	cmd := NewImportLexiconCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-file", "dict.txt"}))
	assert.Equal(t, "default@localhost.localdomain", cmd.Email)
}

func TestImportLexiconCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lexicon.db")
	createUser(t, dbPath, "owner@example.com", "")
	file := writeLexicon(t, "啊 a N:10 T:5\n阿 a N:3\n坏 huai XX:1\n")

	var out bytes.Buffer
	cmd := NewImportLexiconCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-file", file, "-db", dbPath, "-email", "owner@example.com", "-verbose"}))

	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "Imported: 2")
	assert.Contains(t, out.String(), "Failed:   1")
	assert.Contains(t, out.String(), "line 3 (坏)")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.DB.Model(&entities.WordItem{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestImportLexiconCommand_UnknownUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lexicon.db")
	file := writeLexicon(t, "啊 a N:10\n")

	cmd := NewImportLexiconCommand()
	cmd.Out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-file", file, "-db", dbPath, "-email", "ghost@example.com"}))

	err := cmd.Run()

	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestImportLexiconCommand_MissingFile(t *testing.T) {
	cmd := NewImportLexiconCommand()
	cmd.FilePath = filepath.Join(t.TempDir(), "missing.txt")

	assert.ErrorContains(t, cmd.Run(), "file does not exist")
}
