package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomreserve-backend/internal/model"
)

type roomRequest struct {
	Name       string   `json:"name" binding:"required"`
	Group      string   `json:"group"`
	Location   string   `json:"location"`
	Capacity   int      `json:"capacity" binding:"required,min=1"`
	Facilities []string `json:"facilities"`
	Notes      string   `json:"notes"`
	IsOpen     *bool    `json:"isOpen"`
}

// GetRooms handles GET /api/rooms.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.engine.Rooms(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// PostRoom handles POST /api/rooms.
func (h *Handler) PostRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := &model.Room{
		Name:       req.Name,
		Group:      req.Group,
		Location:   req.Location,
		Capacity:   req.Capacity,
		Facilities: req.Facilities,
		Notes:      req.Notes,
		IsOpen:     true,
	}
	if req.IsOpen != nil {
		room.IsOpen = *req.IsOpen
	}

	room, err := h.engine.CreateRoom(c.Request.Context(), room)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// PutRoom handles PUT /api/rooms/:room_id.
func (h *Handler) PutRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := &model.Room{
		ID:         c.Param("room_id"),
		Name:       req.Name,
		Group:      req.Group,
		Location:   req.Location,
		Capacity:   req.Capacity,
		Facilities: req.Facilities,
		Notes:      req.Notes,
		IsOpen:     true,
	}
	if req.IsOpen != nil {
		room.IsOpen = *req.IsOpen
	}

	room, err := h.engine.UpdateRoom(c.Request.Context(), room)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:room_id.
func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.engine.DeleteRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
