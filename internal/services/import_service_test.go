package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexicon/internal/parsers"
)

func TestImportService_ImportParsed(t *testing.T) {
	env := setupTestEnv(t)
	ctx, _ := env.loginAs(t, "tester@example.com")
	importer := NewImportService(env.words, env.users, env.audit)

	parsed, err := parsers.NewLexiconParser().Parse(strings.NewReader(`
啊 a N:10 T:5
阿 a N:3 T:1
ai1 ai N:7
bad a N:1 N:2
broken
`))
	require.NoError(t, err)

	result, err := importer.ImportParsed(ctx, "test", parsed)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)

	lines := []int{result.Errors[0].Line, result.Errors[1].Line}
	assert.ElementsMatch(t, []int{5, 6}, lines)

	items, err := env.words.FindAllByPinyin(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.Len(t, env.audit.imports, 1)
	assert.Equal(t, ImportResult{Imported: 3, Failed: 2}, env.audit.imports[0])
}

func TestImportService_RequiresPrincipal(t *testing.T) {
	env := setupTestEnv(t)
	importer := NewImportService(env.words, env.users, nil)

	_, err := importer.ImportEntries(context.Background(), "test", []parsers.LexiconEntry{{Word: "啊", Pinyins: []string{"a"}}})

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestImportService_StopsOnCancel(t *testing.T) {
	env := setupTestEnv(t)
	ctx, _ := env.loginAs(t, "tester@example.com")
	importer := NewImportService(env.words, env.users, nil)

	ctx, cancel := context.WithCancel(ctx)
	cancel()

	result, err := importer.ImportEntries(ctx, "test", []parsers.LexiconEntry{{Word: "啊", Pinyins: []string{"a"}}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Imported)
}

func TestEntryToWordItem(t *testing.T) {
	item := EntryToWordItem(parsers.LexiconEntry{
		Word:    "长",
		Pinyins: []string{"chang", "zhang"},
		Freqs:   []parsers.TagFreq{{Tag: "A", Freq: 3}},
	})

	assert.Equal(t, "长", item.Name)
	assert.Equal(t, []string{"chang", "zhang"}, item.PinyinNames())
	require.Len(t, item.WordFreqs, 1)
	assert.Equal(t, "A", item.WordFreqs[0].PartOfSpeech.Name)
	assert.Equal(t, 3, item.WordFreqs[0].Freq)
}
