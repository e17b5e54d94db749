package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	auditrepo "github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/entities"
)

type AuditReader interface {
	GetEvents(filter auditrepo.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEntityHistory(entityType string, entityID uint) ([]entities.AuditEvent, error)
}

type AuditController struct {
	audit AuditReader
}

func NewAuditController(audit AuditReader) *AuditController {
	return &AuditController{audit: audit}
}

// Events handles GET /api/audit/events. Every query parameter is optional:
// user_id, type, entity_type, entity_id and since (RFC 3339).
func (ac *AuditController) Events(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	var filter auditrepo.EventFilter
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid user_id")
			return
		}
		filter.UserID = uint(id)
	}
	if v := c.Query("entity_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid entity_id")
			return
		}
		filter.EntityID = uint(id)
	}
	if v := c.Query("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondBadRequest(c, "invalid since, expected RFC 3339")
			return
		}
		filter.Since = since
	}
	filter.EventType = entities.AuditEventType(c.Query("type"))
	filter.EntityType = c.Query("entity_type")

	events, total, err := ac.audit.GetEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	c.JSON(http.StatusOK, paginated(events, total, limit, offset, len(events)))
}

// History handles GET /api/audit/history/:entity_type/:id, oldest event first.
func (ac *AuditController) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	events, err := ac.audit.GetEntityHistory(c.Param("entity_type"), id)
	if err != nil {
		respondInternalError(c, err, "entity history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events, "total": len(events)})
}
