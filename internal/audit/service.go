package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Flush blocks until every event queued with LogAsync has been written.
func (s *Service) Flush() {
	s.pending.Wait()
}

// LogCreate records the creation of a lexicon entity or user.
func (s *Service) LogCreate(userID uint, entityType string, entityID uint, name string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventCreate,
		Action:      entityType + "_create",
		Description: truncate(fmt.Sprintf("Created %s: %s", entityType, name), 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogImport records a lexicon import run.
func (s *Service) LogImport(userID uint, source string, imported, failed int, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventImport,
		Action:      source + "_import",
		Description: fmt.Sprintf("Imported %d words, %d failed", imported, failed),
		EntityType:  "word",
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"imported": imported,
		"failed":   failed,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action string, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// GetEntityHistory returns the events recorded for one entity, oldest first.
func (s *Service) GetEntityHistory(entityType string, entityID uint) ([]entities.AuditEvent, error) {
	return s.repo.GetEntityHistory(entityType, entityID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
