package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/database"
	"github.com/mrlokans/lexicon/internal/http"
	"github.com/mrlokans/lexicon/internal/scheduler"
	"github.com/mrlokans/lexicon/internal/services"
	"github.com/mrlokans/lexicon/internal/tasks"
)

// =============================================================================
// Lexicon Services
// =============================================================================

var _ http.WordStore = (*services.WordItemService)(nil)
var _ http.OwnedWordLister = (*services.WordItemService)(nil)
var _ http.ConceptStore = (*services.ConceptService)(nil)
var _ http.PartOfSpeechLister = (*services.PartOfSpeechService)(nil)

var _ http.UserStore = (*services.UserService)(nil)
var _ http.CurrentUserResolver = (*services.UserService)(nil)
var _ http.PasswordHasher = (*auth.Service)(nil)

var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ http.LexiconImporter = (*services.ImportService)(nil)
var _ tasks.LexiconImporter = (*services.ImportService)(nil)

var _ http.UploadArchive = (*audit.Archive)(nil)
var _ tasks.ArchiveLoader = (*audit.Archive)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ services.AuditLogger = (*audit.Service)(nil)
var _ services.ImportReporter = (*audit.Service)(nil)
var _ auth.Auditor = (*audit.Service)(nil)
var _ tasks.AuditPruner = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
