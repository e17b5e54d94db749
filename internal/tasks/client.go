// Package tasks runs background work on a backlite queue stored in a sqlite
// file next to the main database.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lexicon/internal/config"
)

// Client owns the queue database and its workers.
type Client struct {
	client  *backlite.Client
	db      *sql.DB
	workers int

	mu      sync.Mutex
	started bool
}

func withDefaults(cfg config.Tasks) config.Tasks {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.ReleaseAfter <= 0 {
		cfg.ReleaseAfter = 15 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	return cfg
}

// QueuePath returns the queue database path for a main database path:
// "data/lexicon.db" becomes "data/lexicon-tasks.db".
func QueuePath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// NewClient opens the queue database and installs the backlite schema.
// Queues must be registered before Start.
func NewClient(mainDBPath string, cfg config.Tasks) (*Client, error) {
	cfg = withDefaults(cfg)

	db, err := sql.Open("sqlite3", QueuePath(mainDBPath)+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create task client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install task schema: %w", err)
	}

	return &Client{client: client, db: db, workers: cfg.Workers}, nil
}

func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start launches the workers and returns immediately. Repeated calls are
// ignored.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	log.Printf("Task queue started with %d workers", c.workers)
	c.client.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if !started {
		return true
	}

	ok := c.client.Stop(ctx)
	if ok {
		log.Println("Task queue stopped")
	} else {
		log.Println("Task queue stopped before all tasks completed")
	}
	return ok
}

func (c *Client) Close() error {
	return c.db.Close()
}

// Enqueue saves a single task and returns its id.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	ids, err := c.client.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// Status returns a task's state as a lowercase word such as "pending" or
// "success".
func (c *Client) Status(ctx context.Context, taskID string) (string, error) {
	status, err := c.client.Status(ctx, taskID)
	if err != nil {
		return "", err
	}
	return statusName(status), nil
}

func statusName(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Println(append([]any{"[TASK]", message}, params...)...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Println(append([]any{"[TASK ERROR]", message}, params...)...)
}
