package handler

import (
	financeapp "github.com/fintrack/backend/internal/application/finance"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvestmentHandler handles investment API endpoints
type InvestmentHandler struct {
	BaseHandler
	service *financeapp.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(service *financeapp.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{service: service}
}

// RegisterRoutes registers investment routes on the API group
func (h *InvestmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	investments := rg.Group("/investments")
	{
		investments.GET("", h.ListInvestments)
		investments.POST("", h.CreateInvestment)
		investments.GET("/:id", h.GetInvestment)
		investments.PATCH("/:id/value", h.UpdateValue)
		investments.DELETE("/:id", h.DeleteInvestment)
	}
}

// ListInvestments returns the user's investments
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	investments, err := h.service.ListInvestments(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, investments)
}

// CreateInvestment creates an investment
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req financeapp.CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	inv, err := h.service.CreateInvestment(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, inv)
}

// GetInvestment returns a single investment
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investment ID")
		return
	}

	inv, err := h.service.GetInvestment(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, inv)
}

// UpdateValue applies a manual current-value update
func (h *InvestmentHandler) UpdateValue(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investment ID")
		return
	}

	var req financeapp.UpdateInvestmentValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	inv, err := h.service.UpdateInvestmentValue(c.Request.Context(), ownerID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, inv)
}

// DeleteInvestment removes an investment
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investment ID")
		return
	}

	if err := h.service.DeleteInvestment(c.Request.Context(), ownerID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
