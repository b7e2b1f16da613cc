package handler

import (
	financeapp "github.com/fintrack/backend/internal/application/finance"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoanHandler handles loan API endpoints
type LoanHandler struct {
	BaseHandler
	service *financeapp.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(service *financeapp.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// RegisterRoutes registers loan routes on the API group
func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	loans := rg.Group("/loans")
	{
		loans.GET("", h.ListLoans)
		loans.POST("", h.CreateLoan)
		loans.GET("/:id", h.GetLoan)
		loans.DELETE("/:id", h.DeleteLoan)
	}
}

// ListLoans returns the user's loans
func (h *LoanHandler) ListLoans(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	loans, err := h.service.ListLoans(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, loans)
}

// CreateLoan creates a loan, backfilling EMI history for past start dates
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req financeapp.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	loan, err := h.service.CreateLoan(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, loan)
}

// GetLoan returns a single loan
func (h *LoanHandler) GetLoan(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	loan, err := h.service.GetLoan(c.Request.Context(), ownerID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, loan)
}

// DeleteLoan removes a loan
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	if err := h.service.DeleteLoan(c.Request.Context(), ownerID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
