// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, part-of-speech seeding
//	├── words/           # WordItem aggregate: pinyin, frequencies, concept links
//	├── concepts/        # Concept tree
//	├── partsofspeech/   # Part-of-speech reference data
//	├── users/           # User management
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./lexicon.db")
//
//	// Create domain-specific repositories
//	wordsRepo := words.NewRepository(db.DB)
//	conceptsRepo := concepts.NewRepository(db.DB)
//
//	// Use repositories
//	item, err := wordsRepo.GetByID(ctx, 123)
//	items, err := wordsRepo.FindAllByPinyin(ctx, "a")
//
// Repositories wrap a *gorm.DB, so a repository built from a transaction handle
// (words.NewRepository(tx)) takes part in that transaction. Services in
// internal/services rely on this to make each Add atomic.
//
// # Errors
//
// Repositories return gorm errors unchanged (gorm.ErrRecordNotFound for missing
// rows). Translating them into application errors is the service layer's job.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in Migrate
//  5. Add compile-time interface checks in internal/interfaces
package database
