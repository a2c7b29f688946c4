package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tessera.app/spaced/internal/http/dto"
	"tessera.app/spaced/internal/service"
)

type RoomHandler struct {
	rooms service.RoomService
}

func NewRoomHandler(rooms service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

func (h *RoomHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rooms.Create(ctx, c.Param("name"), req.Name, req.OwnerID, req.Private); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *RoomHandler) Rename(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RenameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rooms.Rename(ctx, c.Param("name"), c.Param("room"), req.NewName); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.rooms.Delete(c.Request.Context(), c.Param("name"), c.Param("room")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) SetPrivacy(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RoomPrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rooms.SetPrivacy(ctx, c.Param("name"), c.Param("room"), *req.Private); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RoomMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rooms.Join(ctx, c.Param("name"), c.Param("room"), req.ParticipantID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) Leave(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RoomMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rooms.Leave(ctx, c.Param("name"), c.Param("room"), req.ParticipantID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoomHandler) EnterPairing(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RoomMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	joined, err := h.rooms.EnterPairing(ctx, c.Param("name"), c.Param("room"), req.ParticipantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PairingResponse{Room: joined})
}
