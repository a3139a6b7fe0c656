package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"navid/server/models"
	"navid/server/service"
)

// ChatHandler exposes conversations, messages, the model catalog and
// attachment upload. All routes require a session.
type ChatHandler struct {
	chat *service.ChatService
	atts *service.AttachmentService
	log  *zap.Logger
}

func NewChatHandler(chat *service.ChatService, atts *service.AttachmentService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, atts: atts, log: log}
}

// Register mounts the chat routes on rg. rg must already enforce sessions.
func (h *ChatHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/chat/models", h.listModels)

	rg.GET("/chat/conversations", h.listConversations)
	rg.POST("/chat/conversations", h.createConversation)
	rg.GET("/chat/conversations/:id", h.getConversation)
	rg.DELETE("/chat/conversations/:id", h.deleteConversation)

	rg.POST("/chat/conversations/:id/messages", h.sendMessage)
	rg.POST("/chat/conversations/:id/edit-message", h.editMessage)
	rg.POST("/chat/conversations/:id/regenerate", h.regenerate)
	rg.GET("/chat/conversations/:id/messages/:messageID/stream", h.streamMessage)

	rg.POST("/chat/attachments", h.uploadAttachment)
}

type createConversationRequest struct {
	ModelID string `json:"model_id"`
}

type sendMessageRequest struct {
	Content     string              `json:"content"`
	Attachments []models.Attachment `json:"attachments"`
}

type editMessageRequest struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

func (h *ChatHandler) listModels(c *gin.Context) {
	catalog, err := h.chat.ListModels(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *ChatHandler) listConversations(c *gin.Context) {
	list, err := h.chat.ListConversations(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ChatHandler) createConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	conv, err := h.chat.CreateConversation(c.Request.Context(), currentUserID(c), req.ModelID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (h *ChatHandler) getConversation(c *gin.Context) {
	conv, messages, err := h.chat.GetConversation(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"messages":     messages,
	})
}

func (h *ChatHandler) deleteConversation(c *gin.Context) {
	if err := h.chat.DeleteConversation(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	assistant, err := h.chat.AddMessage(c.Request.Context(), currentUserID(c), c.Param("id"), req.Content, req.Attachments)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assistant_message": assistant})
}

func (h *ChatHandler) editMessage(c *gin.Context) {
	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.chat.EditUserMessage(c.Request.Context(), currentUserID(c), c.Param("id"), req.MessageID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) regenerate(c *gin.Context) {
	if err := h.chat.RegenerateLastAssistant(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) uploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, service.ErrInvalidAttachment.WithDetails(map[string]any{"reason": "missing file field"}))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	att, err := h.atts.Upload(c.Request.Context(), currentUserID(c), service.UploadInput{
		ID:        c.PostForm("id"),
		Filename:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		SizeBytes: fileHeader.Size,
		Content:   f,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}
