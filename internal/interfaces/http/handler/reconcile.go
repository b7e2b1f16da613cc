package handler

import (
	financeapp "github.com/fintrack/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// ReconcileHandler exposes the manual reconciliation trigger
type ReconcileHandler struct {
	BaseHandler
	reconciler *financeapp.Reconciler
}

// NewReconcileHandler creates a new ReconcileHandler
func NewReconcileHandler(reconciler *financeapp.Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

// RegisterRoutes registers reconcile routes on the API group
func (h *ReconcileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reconcile", h.Reconcile)
}

// Reconcile runs a full sweep over all due obligations. The sweep is
// idempotent, so clients may call it freely; an already-running pass of
// a given kind is skipped rather than stacked.
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	result := h.reconciler.RunAll(c.Request.Context())
	h.Success(c, result)
}
