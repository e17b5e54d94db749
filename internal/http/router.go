package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/entities"
)

// NewRouter wires middleware and every controller.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF runs first; it replaces the request, so the session context must
	// be loaded after it.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.Auth.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}
	router.Use(cfg.AuthMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	api := router.Group("/api")
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		auth.NewAPITokenController(cfg.AuthService).RegisterRoutes(api)
	}

	// Viewers may read but not write.
	writers := cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin, entities.UserRoleEditor)
	admins := cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin)

	words := NewWordsController(cfg.Words)
	api.GET("/words", words.List)
	api.GET("/words/:id", words.Get)
	api.POST("/words", writers, words.Create)

	importer := NewImportController(cfg.Archive, cfg.TaskQueue, cfg.Importer, cfg.Users)
	api.POST("/words/import", writers, importer.Import)

	concepts := NewConceptsController(cfg.Concepts)
	api.GET("/concepts", concepts.List)
	api.GET("/concepts/:id", concepts.Get)
	api.GET("/concepts/:id/children", concepts.Children)
	api.GET("/concepts/:id/words", concepts.Words)
	api.POST("/concepts", writers, concepts.Create)

	NewPartsOfSpeechController(cfg.PartsOfSpeech).RegisterRoutes(api)

	var hasher PasswordHasher
	if cfg.AuthService != nil {
		hasher = cfg.AuthService
	}
	users := NewUsersController(cfg.Users, cfg.Words, hasher)
	api.GET("/users/me", users.Me)
	api.POST("/users", admins, users.Create)

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit/events", admins, auditController.Events)
		api.GET("/audit/history/:entity_type/:id", auditController.History)
	}

	if cfg.TaskQueue != nil {
		NewTasksController(cfg.TaskQueue).RegisterRoutes(api)
	}

	return router
}
