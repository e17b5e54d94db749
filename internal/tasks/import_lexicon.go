package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/parsers"
	"github.com/mrlokans/lexicon/internal/services"
)

type ArchiveLoader interface {
	LoadImport(id string) (*audit.ImportRecord, error)
}

type LexiconImporter interface {
	ImportParsed(ctx context.Context, source string, parsed *parsers.ParseResult) (services.ImportResult, error)
}

// ImportLexiconTask imports an archived lexicon upload on behalf of the
// principal that uploaded it.
type ImportLexiconTask struct {
	ArchiveID string `json:"archive_id"`
}

// Imports are not idempotent, so a failed run is never retried.
func (t ImportLexiconTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_lexicon",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func ImportLexiconProcessor(archive ArchiveLoader, importer LexiconImporter) backlite.QueueProcessor[ImportLexiconTask] {
	return func(ctx context.Context, task ImportLexiconTask) error {
		record, err := archive.LoadImport(task.ArchiveID)
		if err != nil {
			return fmt.Errorf("load upload %s: %w", task.ArchiveID, err)
		}

		parsed, err := parsers.NewLexiconParser().Parse(strings.NewReader(record.Payload))
		if err != nil {
			return fmt.Errorf("parse upload %s: %w", task.ArchiveID, err)
		}

		ctx = auth.WithPrincipal(ctx, record.Principal)
		result, err := importer.ImportParsed(ctx, record.Source, parsed)
		if err != nil {
			return fmt.Errorf("import upload %s: %w", task.ArchiveID, err)
		}

		log.Printf("[TASK] Imported upload %s for %s: %d words, %d failed",
			task.ArchiveID, record.Principal, result.Imported, result.Failed)
		return nil
	}
}

func NewImportLexiconQueue(archive ArchiveLoader, importer LexiconImporter) backlite.Queue {
	return backlite.NewQueue(ImportLexiconProcessor(archive, importer))
}
