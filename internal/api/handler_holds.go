package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roomreserve-backend/internal/engine"
)

type createHoldRequest struct {
	RoomID        string    `json:"roomId" binding:"required"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	EndTime       time.Time `json:"endTime" binding:"required"`
	AssignedTo    string    `json:"assignedTo" binding:"required"`
	AutoReleaseAt time.Time `json:"autoReleaseAt" binding:"required"`
	Notes         string    `json:"notes"`
}

// PostHold handles POST /api/holds.
func (h *Handler) PostHold(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req createHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hold, err := h.engine.CreateHold(c.Request.Context(), engine.CreateHoldInput{
		RoomID:        req.RoomID,
		Start:         req.StartTime,
		End:           req.EndTime,
		AssignedTo:    req.AssignedTo,
		CreatedBy:     caller,
		AutoReleaseAt: req.AutoReleaseAt,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hold)
}

// PostHoldConfirm handles POST /api/holds/:hold_id/confirm.
func (h *Handler) PostHoldConfirm(c *gin.Context) {
	hold, err := h.engine.ConfirmHold(c.Request.Context(), c.Param("hold_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hold)
}

// DeleteHold handles DELETE /api/holds/:hold_id (release).
func (h *Handler) DeleteHold(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.engine.ReleaseHold(c.Request.Context(), c.Param("hold_id"), caller); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
