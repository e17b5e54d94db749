package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lexicon/internal/entities"
)

// DefaultPartsOfSpeech is the tag set understood by the segmenter.
var DefaultPartsOfSpeech = []entities.PartOfSpeech{
	{Name: "N", Note: "noun"},
	{Name: "T", Note: "time word"},
	{Name: "S", Note: "place word"},
	{Name: "F", Note: "direction word"},
	{Name: "V", Note: "verb"},
	{Name: "VN", Note: "verbal noun"},
	{Name: "A", Note: "adjective"},
	{Name: "AD", Note: "adverbial adjective"},
	{Name: "D", Note: "adverb"},
	{Name: "M", Note: "numeral"},
	{Name: "Q", Note: "quantifier"},
	{Name: "R", Note: "pronoun"},
	{Name: "P", Note: "preposition"},
	{Name: "C", Note: "conjunction"},
	{Name: "U", Note: "auxiliary"},
	{Name: "Y", Note: "modal particle"},
	{Name: "E", Note: "interjection"},
	{Name: "O", Note: "onomatopoeia"},
	{Name: "NR", Note: "person name"},
	{Name: "NS", Note: "place name"},
	{Name: "NT", Note: "organization name"},
	{Name: "NZ", Note: "other proper noun"},
	{Name: "NX", Note: "foreign string"},
	{Name: "J", Note: "abbreviation"},
	{Name: "I", Note: "idiom"},
	{Name: "L", Note: "fixed expression"},
	{Name: "H", Note: "prefix"},
	{Name: "K", Note: "suffix"},
	{Name: "G", Note: "morpheme"},
	{Name: "X", Note: "non-morpheme character"},
	{Name: "W", Note: "punctuation"},
	{Name: "UN", Note: "unknown"},
}

type Database struct {
	DB *gorm.DB
}

// Options tunes how the database is opened.
type Options struct {
	LogLevel logger.LogLevel
}

// NewDatabase opens the sqlite file at dbPath, migrates the schema and seeds
// reference data.
func NewDatabase(dbPath string) (*Database, error) {
	return NewDatabaseWithOptions(dbPath, Options{LogLevel: logger.Warn})
}

func NewDatabaseWithOptions(dbPath string, opts Options) (*Database, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	db, err := gorm.Open(sqlite.Open(DSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	database := &Database{DB: db}

	if err := database.seedPartsOfSpeech(); err != nil {
		return nil, fmt.Errorf("failed to seed parts of speech: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

// DSN adds the connection options every handle needs. Foreign keys are off by
// default in sqlite. Transactions take the write lock when they begin, so two
// Add calls queue on the busy timeout instead of deadlocking on a lock upgrade.
func DSN(dbPath string) string {
	return dbPath + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
}

// Migrate creates or updates every table owned by the application.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.User{},
		&entities.PartOfSpeech{},
		&entities.Pinyin{},
		&entities.Concept{},
		&entities.WordItem{},
		&entities.WordFreq{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) seedPartsOfSpeech() error {
	return SeedPartsOfSpeech(d.DB)
}

// SeedPartsOfSpeech inserts every missing tag from DefaultPartsOfSpeech.
func SeedPartsOfSpeech(db *gorm.DB) error {
	for _, pos := range DefaultPartsOfSpeech {
		var existing entities.PartOfSpeech
		result := db.Where("name = ?", pos.Name).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			pos := pos
			if err := db.Create(&pos).Error; err != nil {
				return fmt.Errorf("failed to create part of speech %s: %w", pos.Name, err)
			}
		} else if result.Error != nil {
			return result.Error
		}
	}
	return nil
}
