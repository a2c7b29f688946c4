package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tessera.app/spaced/internal/http/dto"
	"tessera.app/spaced/internal/service"
)

type SpaceHandler struct {
	spaces       service.SpaceService
	participants service.ParticipantService
}

func NewSpaceHandler(spaces service.SpaceService, participants service.ParticipantService) *SpaceHandler {
	return &SpaceHandler{spaces: spaces, participants: participants}
}

func (h *SpaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sp, err := h.spaces.Create(ctx, req.Name, service.SpaceSeed{
		OwnerID:     req.OwnerID,
		OwnerName:   req.OwnerName,
		Platform:    req.Platform,
		Persistent:  req.Persistent,
		AllowGuests: req.AllowGuests,
		Recording:   req.Recording,
		Apps:        req.Apps,
		Policies:    req.Policies,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSpaceResponse(sp))
}

func (h *SpaceHandler) Get(c *gin.Context) {
	sp, err := h.spaces.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSpaceResponse(sp))
}

func (h *SpaceHandler) List(c *gin.Context) {
	detail := c.Query("detail") == "full"

	full, entries, err := h.spaces.List(c.Request.Context(), detail)
	if err != nil {
		respondError(c, err)
		return
	}
	if detail {
		c.JSON(http.StatusOK, dto.ToSpaceResponses(full))
		return
	}
	if entries == nil {
		entries = []service.ListEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *SpaceHandler) Delete(c *gin.Context) {
	if err := h.spaces.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SpaceHandler) TransferOwnership(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.participants.TransferOwnership(ctx, c.Param("name"), req.NewOwnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transferred": ok})
}

func (h *SpaceHandler) PromoteManager(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PromoteManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.spaces.PromoteManager(ctx, c.Param("name"), req.ParticipantID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SpaceHandler) DemoteManager(c *gin.Context) {
	if err := h.spaces.DemoteManager(c.Request.Context(), c.Param("name"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SpaceHandler) Rooms(c *gin.Context) {
	sp, err := h.spaces.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	rooms := make([]*dto.RoomResponse, 0, len(sp.Rooms))
	for _, r := range sp.Rooms {
		rooms = append(rooms, dto.ToRoomResponse(r))
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *SpaceHandler) Usage(c *gin.Context) {
	ledger, err := h.spaces.UsageFor(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

func (h *SpaceHandler) UsageAll(c *gin.Context) {
	ledgers, err := h.spaces.UsageAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgers)
}
