package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tessera.app/spaced/internal/service"
)

type ChatHandler struct {
	chat service.ChatService
}

func NewChatHandler(chat service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Post(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 || !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a json message"})
		return
	}

	if err := h.chat.Post(c.Request.Context(), c.Param("name"), raw); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ChatHandler) History(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)

	msgs, err := h.chat.History(c.Request.Context(), c.Param("name"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]json.RawMessage, len(msgs))
	for i, m := range msgs {
		out[i] = json.RawMessage(m)
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
