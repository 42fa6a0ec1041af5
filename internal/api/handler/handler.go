// Package handler contains the Gin HTTP handlers. Each handler owns a
// resource, registers its own routes and translates service errors into
// response statuses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// parsePage reads limit/offset query parameters, clamping to sane
// bounds. Unparseable values fall back to the defaults.
func parsePage(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// parseIDParam reads a numeric path parameter. A malformed id cannot
// name any resource, so the caller gets 404.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
		return 0, false
	}
	return id, true
}

// respondServiceError maps the service error taxonomy onto statuses:
// not-found sentinels become 404, validation and limit errors 400,
// ErrForbidden 403, anything else 500.
func respondServiceError(c *gin.Context, err error) {
	if fe, ok := service.AsFieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, fe)
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrReviewLimitExceeded),
		errors.Is(err, service.ErrCommentLimitExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
