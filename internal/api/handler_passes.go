package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roomreserve-backend/internal/engine"
)

type issuePassRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Company       string `json:"company"`
	CarPlate      string `json:"carPlate"`
	AttendeeCount int    `json:"attendeeCount"`
}

// PostPass handles POST /api/bookings/:booking_id/passes.
func (h *Handler) PostPass(c *gin.Context) {
	var req issuePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pass, err := h.engine.IssuePass(c.Request.Context(), engine.IssuePassInput{
		BookingID:     c.Param("booking_id"),
		Name:          req.Name,
		Phone:         req.Phone,
		Company:       req.Company,
		CarPlate:      req.CarPlate,
		AttendeeCount: req.AttendeeCount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pass)
}

// PostPassRegister handles POST /api/passes/:pass_id/register.
func (h *Handler) PostPassRegister(c *gin.Context) {
	pass, err := h.engine.RegisterPass(c.Request.Context(), c.Param("pass_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pass)
}

// PostPassCheckIn handles POST /api/passes/:pass_id/checkin. The timestamp
// defaults to the server clock; gate devices may supply their own via "at".
func (h *Handler) PostPassCheckIn(c *gin.Context) {
	at := h.clock.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp format. Use RFC3339."})
			return
		}
		at = parsed
	}

	pass, err := h.engine.CheckInPass(c.Request.Context(), c.Param("pass_id"), at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pass)
}

// GetPassValidity handles GET /api/passes/:pass_id/validity.
func (h *Handler) GetPassValidity(c *gin.Context) {
	at := h.clock.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp format. Use RFC3339."})
			return
		}
		at = parsed
	}

	validity, err := h.engine.IsValidAt(c.Request.Context(), c.Param("pass_id"), at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, validity)
}

// PostPassFace handles POST /api/passes/:pass_id/face (biometric enrollment
// flag; the capture itself happens in the gate hardware, not here).
func (h *Handler) PostPassFace(c *gin.Context) {
	pass, err := h.engine.RecordFace(c.Request.Context(), c.Param("pass_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pass)
}
