package handler

import (
	"net/http"

	"taskmanager/internal/config"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	values *config.Values
}

func NewHealthHandler(values *config.Values) *HealthHandler {
	return &HealthHandler{values: values}
}

// Status reports liveness plus the application identity from the settings
// registry.
func (h *HealthHandler) Status(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"name":    h.values.Get("app.name", ""),
		"version": h.values.Get("app.version", ""),
	}, "OK")
}
