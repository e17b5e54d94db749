package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexicon/internal/services"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "validation"})
}

// respondInternalError logs err and hides it from the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondServiceError maps service error kinds onto HTTP statuses. Anything
// else is an internal error.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "unauthenticated"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "validation"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "conflict"})
	default:
		respondInternalError(c, err, context)
	}
}

// parseIDParam reads a positive id from the path. On failure it has already
// written a 400 response.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit and offset from the query string, clamping the
// limit to maxPageSize.
func parsePagination(c *gin.Context) (limit, offset int, ok bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		respondBadRequest(c, "invalid limit")
		return 0, 0, false
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		respondBadRequest(c, "invalid offset")
		return 0, 0, false
	}
	return limit, offset, true
}

func paginated(data any, total int64, limit, offset, count int) PaginatedResponse {
	return PaginatedResponse{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+count) < total,
	}
}
