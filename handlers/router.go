package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"navid/server/service"
)

// NewRouter assembles the versioned API. Auth entry points and the help
// center are public; everything else sits behind the session middleware.
func NewRouter(authSvc *service.AuthService, auth *AuthHandler, chat *ChatHandler, settings *SettingsHandler, help *HelpHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	auth.Register(api)
	help.Register(api)

	protected := api.Group("", RequireSession(authSvc))
	chat.Register(protected)
	settings.Register(protected)

	return r
}
