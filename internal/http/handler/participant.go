package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tessera.app/spaced/internal/http/dto"
	"tessera.app/spaced/internal/service"
)

type ParticipantHandler struct {
	participants service.ParticipantService
}

func NewParticipantHandler(participants service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

func (h *ParticipantHandler) Upsert(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpsertParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.participants.Upsert(ctx, c.Param("name"), c.Param("id"), req.Patch(), req.InitialJoin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToParticipantResponse(p))
}

func (h *ParticipantHandler) Remove(c *gin.Context) {
	outcome, err := h.participants.Remove(c.Request.Context(), c.Param("name"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RemoveParticipantResponse{
		Removed:      true,
		SpaceCleared: outcome.SpaceCleared,
	})
}
