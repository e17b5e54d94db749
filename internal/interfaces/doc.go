// Package interfaces documents the core abstractions used throughout the application.
//
// Consumers declare the small interfaces they need next to the code that uses
// them; this package only lists them and holds the compile-time checks that
// tie them to their implementations.
//
// # Interface Categories
//
// ## Lexicon Stores
//
//   - WordStore: Add and look up word items (internal/http/words.go)
//   - OwnedWordLister: Words created by one user (internal/http/users.go)
//   - ConceptStore: Concept tree access (internal/http/concepts.go)
//   - PartOfSpeechLister: Seeded tag table (internal/http/partsofspeech.go)
//   - UserStore, CurrentUserResolver: Accounts and the request principal
//     (internal/http/users.go, internal/http/imports.go)
//
// ## Import Pipeline
//
//   - UploadArchive: Persist an uploaded lexicon (internal/http/imports.go)
//   - ArchiveLoader: Read it back inside a task (internal/tasks/import_lexicon.go)
//   - LexiconImporter: Turn parsed lines into word items (internal/tasks/import_lexicon.go)
//
// ## Audit Trail
//
//   - AuditLogger, ImportReporter: Write side used by services (internal/services)
//   - Auditor: Login and logout events (internal/auth/handlers.go)
//   - AuditReader: Query side for the API (internal/http/audit.go)
//   - AuditPruner: Retention cleanup (internal/tasks/prune_audit.go)
//
// ## Background Work
//
//   - TaskQueue: Enqueue and poll tasks (internal/http/imports.go)
//   - Enqueuer: Scheduled jobs (internal/scheduler/audit_prune.go)
//
// # Adding a New Background Task
//
//  1. Define the task type and its queue in internal/tasks/
//
//     type RecountFreqsTask struct{ PartOfSpeech string }
//
//     func (t RecountFreqsTask) Config() backlite.QueueConfig {
//         return backlite.QueueConfig{Name: "recount_freqs", MaxAttempts: 1}
//     }
//
//     func NewRecountFreqsQueue(db *gorm.DB) backlite.Queue {
//         return backlite.NewQueue[RecountFreqsTask](RecountFreqsProcessor(db))
//     }
//
//  2. Register the queue in entrypoint.go next to the others
//
//  3. Enqueue from a controller through the TaskQueue interface
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
