package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	retention time.Duration
	err       error
}

func (f *fakePruner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, f.err
}

func TestPruneAuditEventsProcessor(t *testing.T) {
	tests := []struct {
		name string
		days int
		want time.Duration
	}{
		{name: "configured", days: 7, want: 7 * 24 * time.Hour},
		{name: "default", days: 0, want: 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pruner := &fakePruner{}
			err := PruneAuditEventsProcessor(pruner)(context.Background(), PruneAuditEventsTask{RetentionDays: tt.days})

			assert.NoError(t, err)
			assert.Equal(t, tt.want, pruner.retention)
		})
	}
}

func TestPruneAuditEventsProcessor_Errors(t *testing.T) {
	err := PruneAuditEventsProcessor(nil)(context.Background(), PruneAuditEventsTask{})
	assert.Error(t, err)

	boom := errors.New("disk full")
	err = PruneAuditEventsProcessor(&fakePruner{err: boom})(context.Background(), PruneAuditEventsTask{})
	assert.ErrorIs(t, err, boom)
}

func TestPruneAuditEventsTask_Config(t *testing.T) {
	cfg := PruneAuditEventsTask{}.Config()

	assert.Equal(t, "prune_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
}
