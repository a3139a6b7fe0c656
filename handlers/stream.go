package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// streamDelay spaces chunk emission so clients can render a typing effect.
const streamDelay = 25 * time.Millisecond

// streamMessage replays a committed message over SSE, one word at a time.
// The message already exists in full; a client disconnect stops the replay
// and leaves state untouched.
func (h *ChatHandler) streamMessage(c *gin.Context) {
	msg, err := h.chat.GetMessage(c.Request.Context(), currentUserID(c), c.Param("id"), c.Param("messageID"))
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	words := strings.Fields(msg.Content)
	for i, word := range words {
		select {
		case <-ctx.Done():
			return
		default:
		}
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		c.SSEvent("chunk", chunk)
		c.Writer.Flush()
		time.Sleep(streamDelay)
	}
	c.SSEvent("done", msg.ID)
	c.Writer.Flush()
}
