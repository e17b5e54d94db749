// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/tasks"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(expr string) error {
	_, err := parser.Parse(expr)
	return err
}

type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// AuditPruneScheduler deletes expired audit events on a schedule. With an
// enqueuer the work goes through the task queue, otherwise it runs inline.
type AuditPruneScheduler struct {
	schedule      string
	retentionDays int
	enqueuer      Enqueuer
	pruner        tasks.AuditPruner

	cron    *cron.Cron
	entryID cron.EntryID
	ctx     context.Context
	mu      sync.Mutex
	running bool
}

func NewAuditPruneScheduler(cfg config.Audit, enqueuer Enqueuer, pruner tasks.AuditPruner) *AuditPruneScheduler {
	return &AuditPruneScheduler{
		schedule:      cfg.CleanupSchedule,
		retentionDays: cfg.RetentionDays,
		enqueuer:      enqueuer,
		pruner:        pruner,
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the job. An empty schedule disables it.
func (s *AuditPruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.schedule == "" {
		log.Printf("Audit prune scheduler: disabled")
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.ctx = ctx
	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(s.ctx); err != nil {
			log.Printf("Audit prune scheduler: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit prune: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.running = true
	log.Printf("Audit prune scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running job to finish.
func (s *AuditPruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.running = false
	log.Printf("Audit prune scheduler: stopped")
}

// NextRun is zero while the scheduler is stopped.
func (s *AuditPruneScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// RunNow prunes immediately, bypassing the schedule.
func (s *AuditPruneScheduler) RunNow(ctx context.Context) error {
	task := tasks.PruneAuditEventsTask{RetentionDays: s.retentionDays}

	if s.enqueuer != nil {
		id, err := s.enqueuer.Enqueue(ctx, task)
		if err != nil {
			return fmt.Errorf("enqueue audit prune: %w", err)
		}
		log.Printf("Audit prune scheduler: enqueued task %s", id)
		return nil
	}

	return tasks.PruneAuditEventsProcessor(s.pruner)(ctx, task)
}
