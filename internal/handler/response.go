package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper. Success is derived from the
// HTTP status code alone so the two can never disagree.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func respond(c *gin.Context, code int, data any, message string) {
	c.JSON(code, Envelope{
		Success: code >= 200 && code < 300,
		Data:    data,
		Message: message,
	})
}

// Recovery converts a panic escaping a handler into a 500 envelope
// carrying the fault message, so clients never see a bare error page.
// Wired via gin.CustomRecovery.
func Recovery(c *gin.Context, recovered any) {
	message := "Internal server error"
	switch v := recovered.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Data:    nil,
		Message: message,
	})
}
