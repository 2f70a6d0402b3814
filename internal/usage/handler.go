package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetlab-backend/internal/shared/server/middleware"
	"vetlab-backend/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
}

// RegisterDevRoutes attaches dev-only usage routes.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/usage/plan", h.setPlan)
}

func (h *Handler) getUsage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch usage", nil)
		}
		return
	}
	plan := PlanByID(profile.PlanID)

	respond.JSON(c, http.StatusOK, gin.H{
		"plan":      plan.ID,
		"limit":     plan.Limit,
		"used":      profile.AnalysesUsed,
		"unlimited": plan.Unlimited(),
	})
}

type setPlanRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

func (h *Handler) setPlan(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req setPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "planId is required", nil)
		return
	}

	profile, err := h.Svc.SetPlan(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to set plan", nil)
		return
	}
	plan := PlanByID(profile.PlanID)

	respond.JSON(c, http.StatusOK, gin.H{
		"plan":  plan.ID,
		"limit": plan.Limit,
		"used":  profile.AnalysesUsed,
	})
}
