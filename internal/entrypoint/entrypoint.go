package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/database"
	auditrepo "github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/entities"
	http_controllers "github.com/mrlokans/lexicon/internal/http"
	"github.com/mrlokans/lexicon/internal/scheduler"
	"github.com/mrlokans/lexicon/internal/services"
	"github.com/mrlokans/lexicon/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, plain kill sends SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work is stopped after the last request has finished.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// csrfSecret decodes a hex AUTH_SESSION_SECRET, falls back to its raw bytes,
// and generates a fresh key when none is configured.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return secret, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Lexicon v%s", version)

	if cfg.Audit.CleanupSchedule != "" {
		if err := scheduler.ValidateSchedule(cfg.Audit.CleanupSchedule); err != nil {
			log.Fatalf("Invalid AUDIT_CLEANUP_SCHEDULE %q: %v", cfg.Audit.CleanupSchedule, err)
		}
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	archive := audit.NewArchive(cfg.Audit.Dir)

	users := services.NewUserService(db.DB, auditService)
	words := services.NewWordItemService(db.DB, users, auditService)
	concepts := services.NewConceptService(db.DB, users, auditService)
	importer := services.NewImportService(words, users, auditService)

	// Authentication
	var authService *auth.Service
	var authController *auth.AuthController
	var sessionManager *auth.SessionManager
	var secret []byte
	var defaultUser *entities.User

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		secret, err = csrfSecret(cfg.Auth.SessionSecret)
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}

		authController = auth.NewAuthController(authService, sessionManager, cfg.Auth, auditService)

		hasUsers, _ := authService.HasUsers(context.Background())
		if !hasUsers {
			log.Printf("No users found. POST /setup to create an administrator account.")
		}
	} else {
		log.Printf("Authentication mode: none, every request runs as %s", cfg.Auth.DefaultPrincipal)

		defaultUser, err = users.EnsureUser(context.Background(), cfg.Auth.DefaultPrincipal, entities.UserRoleAdmin)
		if err != nil {
			log.Fatalf("Failed to seed default user: %v", err)
		}
	}
	authMiddleware := auth.NewMiddleware(authService, sessionManager, cfg.Auth, defaultUser)

	// Task queue
	var taskClient *tasks.Client
	var taskQueue http_controllers.TaskQueue
	var enqueuer scheduler.Enqueuer
	taskCtx, taskCancel := context.WithCancel(context.Background())
	defer taskCancel()

	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, cfg.Tasks)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportLexiconQueue(archive, importer),
			tasks.NewPruneAuditEventsQueue(auditService),
		)
		taskClient.Start(taskCtx)

		// Assigned only here so the interfaces stay nil when tasks are off.
		taskQueue = taskClient
		enqueuer = taskClient
	} else {
		log.Printf("Task queue disabled, imports run within the request")
	}

	pruneScheduler := scheduler.NewAuditPruneScheduler(cfg.Audit, enqueuer, auditService)
	if err := pruneScheduler.Start(taskCtx); err != nil {
		log.Fatalf("Failed to start audit prune scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Version:        version,
		Auth:           cfg.Auth,
		Database:       db,
		Words:          words,
		Concepts:       concepts,
		Users:          users,
		PartsOfSpeech:  services.NewPartOfSpeechService(db.DB),
		Importer:       importer,
		Audit:          auditService,
		Archive:        archive,
		TaskQueue:      taskQueue,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		AuthController: authController,
		SessionManager: sessionManager,
		CSRFSecret:     secret,
	})

	onShutdown := func(ctx context.Context) {
		pruneScheduler.Stop()
		if taskClient != nil {
			if !taskClient.Stop(ctx) {
				log.Printf("Task queue did not drain before the shutdown deadline")
			}
		}
		taskCancel()
		if authController != nil {
			authController.Stop()
		}
		auditService.Flush()
	}

	Serve(router, cfg, onShutdown)
}
