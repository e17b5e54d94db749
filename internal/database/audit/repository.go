// Package audit stores the audit trail of lexicon changes and logins.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EventFilter narrows GetEvents. Zero fields match everything.
type EventFilter struct {
	UserID     uint
	EventType  entities.AuditEventType
	EntityType string
	EntityID   uint
	Since      time.Time
}

func (f EventFilter) apply(query *gorm.DB) *gorm.DB {
	if f.UserID > 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.EventType != "" {
		query = query.Where("event_type = ?", f.EventType)
	}
	if f.EntityType != "" {
		query = query.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		query = query.Where("entity_id = ?", f.EntityID)
	}
	if !f.Since.IsZero() {
		query = query.Where("created_at > ?", f.Since)
	}
	return query
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves a page of matching events, most recent first.
func (r *Repository) GetEvents(filter EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	if err := filter.apply(r.db.Model(&entities.AuditEvent{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := filter.apply(r.db.Model(&entities.AuditEvent{})).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, total, err
}

// GetEntityHistory returns every event recorded for one entity, oldest first.
func (r *Repository) GetEntityHistory(entityType string, entityID uint) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
