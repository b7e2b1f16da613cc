package handler

import (
	financeapp "github.com/fintrack/backend/internal/application/finance"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecurringHandler handles recurring template API endpoints
type RecurringHandler struct {
	BaseHandler
	service *financeapp.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(service *financeapp.RecurringService) *RecurringHandler {
	return &RecurringHandler{service: service}
}

// RegisterRoutes registers recurring template routes on the API group
func (h *RecurringHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recurring := rg.Group("/recurring")
	{
		recurring.GET("", h.ListItems)
		recurring.POST("", h.CreateItem)
		recurring.GET("/:id", h.GetItem)
		recurring.POST("/:id/process", h.ProcessItem)
		recurring.PATCH("/:id/deactivate", h.DeactivateItem)
		recurring.DELETE("/:id", h.DeleteItem)
	}
}

// ListItems returns the user's recurring templates
func (h *RecurringHandler) ListItems(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	items, err := h.service.ListRecurringItems(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// CreateItem creates a recurring template, optionally posting the current
// period immediately
func (h *RecurringHandler) CreateItem(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req financeapp.CreateRecurringItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	item, err := h.service.CreateRecurringItem(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem returns a single recurring template
func (h *RecurringHandler) GetItem(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recurring item ID")
		return
	}

	item, err := h.service.GetRecurringItem(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// ProcessItem posts the template's entry for the current period on demand
func (h *RecurringHandler) ProcessItem(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recurring item ID")
		return
	}

	item, err := h.service.ProcessRecurringItem(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// DeactivateItem permanently removes the template from processing
func (h *RecurringHandler) DeactivateItem(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recurring item ID")
		return
	}

	item, err := h.service.DeactivateRecurringItem(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes a recurring template entirely
func (h *RecurringHandler) DeleteItem(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recurring item ID")
		return
	}

	if err := h.service.DeleteRecurringItem(c.Request.Context(), ownerID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
