package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

type AuditPruner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// PruneAuditEventsTask deletes audit events older than RetentionDays.
type PruneAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t PruneAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t PruneAuditEventsTask) retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func PruneAuditEventsProcessor(pruner AuditPruner) backlite.QueueProcessor[PruneAuditEventsTask] {
	return func(ctx context.Context, task PruneAuditEventsTask) error {
		if pruner == nil {
			return errors.New("audit pruner not configured")
		}

		deleted, err := pruner.DeleteOldEvents(task.retention())
		if err != nil {
			return fmt.Errorf("prune audit events: %w", err)
		}
		if deleted > 0 {
			log.Printf("[TASK] Pruned %d audit events", deleted)
		}
		return nil
	}
}

func NewPruneAuditEventsQueue(pruner AuditPruner) backlite.Queue {
	return backlite.NewQueue(PruneAuditEventsProcessor(pruner))
}
