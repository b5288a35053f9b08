package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vsinha/capacity/pkg/application/dto"
	"github.com/vsinha/capacity/pkg/application/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PlanHandler serves production plans computed on demand.
type PlanHandler struct {
	planner services.Planner
	catalog Pinger
	logger  *zap.Logger
}

// NewPlanHandler constructs the HTTP handler adapter. catalog may be nil.
func NewPlanHandler(planner services.Planner, catalog Pinger, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{planner: planner, catalog: catalog, logger: logger}
}

// GetProductionPlan computes a fresh plan from the current catalog and stock.
func (h *PlanHandler) GetProductionPlan(c *gin.Context) {
	plan, err := h.planner.Plan(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to generate production plan",
			zap.Error(err),
			zap.String("request_id", RequestIDFromContext(c)))
		writeJSONError(c, http.StatusInternalServerError, "failed to generate production plan", err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.NewProductionPlanResponse(*plan))
}

// Health reports liveness, and catalog reachability when a catalog is wired.
func (h *PlanHandler) Health(c *gin.Context) {
	if h.catalog != nil {
		if err := h.catalog.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("catalog health check failed", zap.Error(err))
			writeJSONError(c, http.StatusServiceUnavailable, "catalog unavailable", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
