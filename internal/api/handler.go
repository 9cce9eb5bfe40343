package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"roomreserve-backend/internal/engine"
	"roomreserve-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine  *engine.Engine
	clock   engine.Clock
	store   store.Store
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(e *engine.Engine, clock engine.Clock, s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		engine:  e,
		clock:   clock,
		store:   s,
		webpush: webpushOptions,
	}
}

// callerID extracts the opaque caller identity supplied by the front
// proxy. The service performs no authentication of its own; it only compares
// these values against record ownership.
func callerID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header is required"})
		return "", false
	}
	return id, true
}

// writeError translates engine error kinds into HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, engine.ErrBookingConflict),
		errors.Is(err, engine.ErrSlotConflict),
		errors.Is(err, engine.ErrRoomClosed),
		errors.Is(err, engine.ErrInvalidTransition),
		errors.Is(err, engine.ErrAlreadyRegistered),
		errors.Is(err, engine.ErrOutsideWindow),
		errors.Is(err, engine.ErrNotRegistered),
		errors.Is(err, engine.ErrBookingNotActive):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrInvalidWindow),
		errors.Is(err, engine.ErrEmptyTitle),
		errors.Is(err, engine.ErrInvalidPhone),
		errors.Is(err, engine.ErrInvalidAutoRelease):
		status = http.StatusUnprocessableEntity
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
