package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"navid/server/service"
)

// HelpHandler serves the read-only help center.
type HelpHandler struct {
	help *service.HelpService
}

func NewHelpHandler(help *service.HelpService) *HelpHandler {
	return &HelpHandler{help: help}
}

// Register mounts the help routes on rg.
func (h *HelpHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/help/articles", h.listArticles)
	rg.GET("/help/articles/:id", h.getArticle)
}

func (h *HelpHandler) listArticles(c *gin.Context) {
	articles, err := h.help.ListArticles(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *HelpHandler) getArticle(c *gin.Context) {
	article, err := h.help.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}
