package handlers

import (
	"github.com/gin-gonic/gin"

	"navid/server/service"
)

// errorBody is the wire shape of every failure.
type errorBody struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// fail translates a domain error into its transport status and JSON body.
// Anything that is not a service.Error collapses to INTERNAL.
func fail(c *gin.Context, err error) {
	e := service.AsError(err)
	c.AbortWithStatusJSON(e.Status, errorBody{
		Message: e.Message,
		Code:    e.Code,
		Details: e.Details,
	})
}

// badRequest rejects a malformed request body.
func badRequest(c *gin.Context, err error) {
	fail(c, service.Validation("Invalid request body: "+err.Error()))
}
