package http

import (
	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/services"
)

// RouterConfig carries every dependency of NewRouter. Optional fields may be
// nil: no TaskQueue means imports run inline, no SessionManager or
// CSRFSecret means cookie sessions are off.
type RouterConfig struct {
	Version string
	Auth    config.Auth

	Database Pinger

	Words         *services.WordItemService
	Concepts      *services.ConceptService
	Users         *services.UserService
	PartsOfSpeech *services.PartOfSpeechService
	Importer      *services.ImportService

	Audit   *audit.Service
	Archive *audit.Archive

	TaskQueue TaskQueue

	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	AuthController *auth.AuthController
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
}
