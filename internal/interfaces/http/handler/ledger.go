package handler

import (
	financeapp "github.com/fintrack/backend/internal/application/finance"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles ledger entry API endpoints
type LedgerHandler struct {
	BaseHandler
	service *financeapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service *financeapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// RegisterRoutes registers ledger routes on the API group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/records")
	{
		entries.GET("", h.ListEntries)
		entries.POST("", h.CreateEntry)
		entries.GET("/:id", h.GetEntry)
		entries.DELETE("/:id", h.DeleteEntry)
	}
}

// ListEntries returns the user's ledger entries, newest first
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req financeapp.ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// CreateEntry records a manual ledger entry
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req financeapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, entry)
}

// GetEntry returns a single ledger entry
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// DeleteEntry removes a ledger entry
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.service.DeleteEntry(c.Request.Context(), ownerID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
