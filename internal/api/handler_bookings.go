package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roomreserve-backend/internal/engine"
)

type createBookingRequest struct {
	RoomID            string    `json:"roomId" binding:"required"`
	Title             string    `json:"title" binding:"required"`
	StartTime         time.Time `json:"startTime" binding:"required"`
	EndTime           time.Time `json:"endTime" binding:"required"`
	Participants      []string  `json:"participants"`
	Description       string    `json:"description"`
	NotifyLeadMinutes *int      `json:"notifyLeadMinutes"`
}

// PostBooking handles POST /api/bookings.
func (h *Handler) PostBooking(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.engine.CreateBooking(c.Request.Context(), engine.CreateBookingInput{
		RoomID:            req.RoomID,
		Start:             req.StartTime,
		End:               req.EndTime,
		Organizer:         caller,
		Title:             req.Title,
		Participants:      req.Participants,
		Description:       req.Description,
		NotifyLeadMinutes: req.NotifyLeadMinutes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

type editBookingRequest struct {
	RoomID            *string    `json:"roomId"`
	Title             *string    `json:"title"`
	StartTime         *time.Time `json:"startTime"`
	EndTime           *time.Time `json:"endTime"`
	Participants      *[]string  `json:"participants"`
	Description       *string    `json:"description"`
	NotifyLeadMinutes *int       `json:"notifyLeadMinutes"`
}

// PutBooking handles PUT /api/bookings/:booking_id.
func (h *Handler) PutBooking(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	var req editBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.engine.EditBooking(c.Request.Context(), c.Param("booking_id"), caller, engine.EditBookingInput{
		RoomID:            req.RoomID,
		Start:             req.StartTime,
		End:               req.EndTime,
		Title:             req.Title,
		Participants:      req.Participants,
		Description:       req.Description,
		NotifyLeadMinutes: req.NotifyLeadMinutes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking handles DELETE /api/bookings/:booking_id (cancellation — the
// record itself is retained).
func (h *Handler) DeleteBooking(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.engine.CancelBooking(c.Request.Context(), c.Param("booking_id"), caller); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetConflicts handles GET /api/rooms/:room_id/conflicts?start=...&end=...
func (h *Handler) GetConflicts(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339."})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339."})
		return
	}

	occupants, err := h.engine.ConflictsFor(c.Param("room_id"), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	if occupants == nil {
		occupants = []engine.Occupant{}
	}
	c.JSON(http.StatusOK, occupants)
}
