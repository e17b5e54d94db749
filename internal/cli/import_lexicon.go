package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/database"
	auditrepo "github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/parsers"
	"github.com/mrlokans/lexicon/internal/services"
)

type ImportLexiconCommand struct {
	FilePath     string
	DatabasePath string
	Email        string
	Verbose      bool

	Out io.Writer
}

func NewImportLexiconCommand() *ImportLexiconCommand {
	return &ImportLexiconCommand{Out: os.Stdout}
}

func (cmd *ImportLexiconCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-lexicon", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the lexicon text file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the lexicon database")
	fs.StringVar(&cmd.Email, "email", config.DefaultPrincipal, "Email of the user that will own the imported words")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every failed line")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-lexicon [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a lexicon file with one \"word pinyin TAG:freq ...\" entry per line.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-lexicon -file ./dict.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-lexicon -file ./dict.txt -db ./lexicon.db -email editor@example.com\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	return nil
}

func (cmd *ImportLexiconCommand) Run() error {
	if _, err := os.Stat(cmd.FilePath); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", cmd.FilePath)
	}

	parsed, err := parsers.NewLexiconParser().ParseFile(cmd.FilePath)
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Flush()

	users := services.NewUserService(db.DB, auditService)
	words := services.NewWordItemService(db.DB, users, auditService)
	importer := services.NewImportService(words, users, auditService)

	ctx := auth.WithPrincipal(context.Background(), cmd.Email)
	result, err := importer.ImportParsed(ctx, "cli:"+filepath.Base(cmd.FilePath), parsed)
	if err != nil {
		return fmt.Errorf("failed to import lexicon: %w", err)
	}

	fmt.Fprintf(cmd.Out, "\n=== Import Results ===\n")
	fmt.Fprintf(cmd.Out, "Imported: %d\n", result.Imported)
	fmt.Fprintf(cmd.Out, "Failed:   %d\n", result.Failed)
	if cmd.Verbose {
		for _, e := range result.Errors {
			fmt.Fprintf(cmd.Out, "  line %d (%s): %s\n", e.Line, e.Word, e.Err)
		}
	}

	return nil
}
