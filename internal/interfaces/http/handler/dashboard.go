package handler

import (
	financeapp "github.com/fintrack/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard API endpoints
type DashboardHandler struct {
	BaseHandler
	service *financeapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *financeapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// RegisterRoutes registers dashboard routes on the API group
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)
}

// GetDashboard returns the user's aggregated financial snapshot
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	dashboard, err := h.service.GetDashboard(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dashboard)
}
