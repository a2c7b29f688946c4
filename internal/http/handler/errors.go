package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tessera.app/spaced/internal/service"
)

// Machine-readable codes for the two retryable pairing outcomes. Clients back
// off and retry on these; they are never terminal.
const (
	CodeRoomFull     = "room_full"
	CodeRoomNotReady = "room_not_ready"
)

// respondError maps service errors onto the wire. NotFound and Conflict are
// terminal for the request; retryable codes carry Retry-After so clients poll.
// Anything else is a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomFull):
		c.Header("Retry-After", "2")
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": CodeRoomFull, "error": err.Error()})
	case errors.Is(err, service.ErrRoomNotReady):
		c.Header("Retry-After", "2")
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": CodeRoomNotReady, "error": err.Error()})
	case errors.Is(err, service.ErrSpaceNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSpaceExists),
		errors.Is(err, service.ErrRoomExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGuestsNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
