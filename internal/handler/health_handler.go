package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse aggregates the status of every registered upstream
// dependency. The overall status is "degraded" as soon as one service
// is down or its circuit breaker is open.
type HealthResponse struct {
	Status   string      `json:"status"`
	Services interface{} `json:"services"`
}

// GetHealth godoc
// @Summary      Service health
// @Description  Reports overall health plus per-dependency circuit breaker state.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func GetHealth(c *gin.Context) {
	status := "healthy"
	if !registry.Healthy() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   status,
		Services: registry.Snapshot(),
	})
}
