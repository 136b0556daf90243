package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-pool-snapshot/internal/api/rest/dto"
	"github.com/feral-file/ff-pool-snapshot/internal/snapshot"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetPoolSnapshot returns the market snapshot of a pool
	// GET /pool-snapshot?poolAddress=<address>
	GetPoolSnapshot(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// NotFound responds to unknown routes
	NotFound(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	snapshots snapshot.Service
}

// NewHandler creates a new REST API handler
func NewHandler(snapshots snapshot.Service) Handler {
	return &handler{
		snapshots: snapshots,
	}
}

// GetPoolSnapshot assembles the snapshot for the requested pool
func (h *handler) GetPoolSnapshot(c *gin.Context) {
	poolAddress := strings.TrimSpace(c.Query("poolAddress"))
	if poolAddress == "" {
		respondBadRequest(c, "poolAddress is required")
		return
	}

	result, err := h.snapshots.GetPoolSnapshot(c.Request.Context(), poolAddress)
	if err != nil {
		respondInternalError(c, err, "Failed to fetch pool data", zap.String("pool", poolAddress))
		return
	}

	c.JSON(http.StatusOK, dto.MapPoolSnapshotToDTO(result))
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-pool-snapshot",
	})
}

// NotFound responds with a structured 404
func (h *handler) NotFound(c *gin.Context) {
	respondNotFound(c, "Route not found", c.Request.URL.Path)
}
