package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/utils"
)

type HealthHandler struct {
	gateway *clients.Gateway
	catalog *config.Catalog
}

func NewHealthHandler(gateway *clients.Gateway, catalog *config.Catalog) *HealthHandler {
	return &HealthHandler{gateway: gateway, catalog: catalog}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"message":      "Planea backend is running",
		"service":      "planea-backend",
		"version":      "1.0.0",
		"aiConfigured": h.gateway.Configured(),
		"defaultModel": h.gateway.DefaultModel(),
	})
}

// GET /api/catalog
func (h *HealthHandler) Catalog(c *gin.Context) {
	utils.WriteJSONResponse(c, http.StatusOK, h.catalog)
}
