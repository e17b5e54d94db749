package services

import (
	"context"
	"log"

	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/parsers"
)

// ImportReporter receives the summary of every import run.
type ImportReporter interface {
	LogImport(userID uint, source string, imported, failed int, err error)
}

// ImportService adds parsed lexicon entries through WordItemService.
type ImportService struct {
	words    *WordItemService
	users    *UserService
	reporter ImportReporter
}

func NewImportService(words *WordItemService, users *UserService, reporter ImportReporter) *ImportService {
	return &ImportService{
		words:    words,
		users:    users,
		reporter: reporter,
	}
}

// ImportEntries adds each entry as its own word item. A failing entry is
// recorded in the result and does not stop the run. The principal must
// resolve to a user before anything is written.
func (s *ImportService) ImportEntries(ctx context.Context, source string, entries []parsers.LexiconEntry) (ImportResult, error) {
	return s.run(ctx, source, entries, ImportResult{})
}

// ImportParsed imports the entries of a parse result and counts its
// malformed lines as failures.
func (s *ImportService) ImportParsed(ctx context.Context, source string, parsed *parsers.ParseResult) (ImportResult, error) {
	var result ImportResult
	for _, le := range parsed.Errors {
		result.Failed++
		result.Errors = append(result.Errors, ImportLineError{Line: le.Line, Word: le.Text, Err: le.Err.Error()})
	}
	return s.run(ctx, source, parsed.Entries, result)
}

func (s *ImportService) run(ctx context.Context, source string, entries []parsers.LexiconEntry, result ImportResult) (ImportResult, error) {
	owner, err := s.users.CurrentUser(ctx)
	if err != nil {
		return result, err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			s.report(owner.ID, source, result, err)
			return result, err
		}

		item := EntryToWordItem(entry)
		if err := s.words.Add(ctx, item); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportLineError{Line: entry.Line, Word: entry.Word, Err: err.Error()})
			continue
		}
		result.Imported++
	}

	log.Printf("Lexicon import from %s: %d imported, %d failed", source, result.Imported, result.Failed)
	s.report(owner.ID, source, result, nil)
	return result, nil
}

func (s *ImportService) report(userID uint, source string, result ImportResult, err error) {
	if s.reporter != nil {
		s.reporter.LogImport(userID, source, result.Imported, result.Failed, err)
	}
}

// EntryToWordItem converts a parsed line into an unsaved word item whose
// frequencies reference parts of speech by tag.
func EntryToWordItem(entry parsers.LexiconEntry) *entities.WordItem {
	item := &entities.WordItem{Name: entry.Word}
	for _, p := range entry.Pinyins {
		item.Pinyins = append(item.Pinyins, entities.Pinyin{Name: p})
	}
	for _, f := range entry.Freqs {
		item.WordFreqs = append(item.WordFreqs, entities.WordFreq{
			Freq:         f.Freq,
			PartOfSpeech: entities.PartOfSpeech{Name: f.Tag},
		})
	}
	return item
}
