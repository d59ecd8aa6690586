// internal/handlers/health.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tauro-app/tauro-backend/internal/database"
	"github.com/tauro-app/tauro-backend/internal/utils"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	version, err := database.ServerVersion(c.Request.Context(), h.db)
	if err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database unreachable", gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"database":  gin.H{"version": version},
	})
}
