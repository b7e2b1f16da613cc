package finance

import (
	"context"
	"sync/atomic"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/fintrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Reconciler drives the recurring-obligation passes. It runs them from
// two triggers: creation events on the obligation collections, and the
// periodic scheduler tick. Each pass kind carries its own in-flight
// flag, so overlapping triggers collapse into one running pass instead
// of stacking; a suppressed run is harmless because every pass is
// idempotent and the next tick repeats it.
type Reconciler struct {
	loans       *LoanService
	investments *InvestmentService
	recurring   *RecurringService
	logger      *zap.Logger

	emiInFlight       atomic.Bool
	sipInFlight       atomic.Bool
	interestInFlight  atomic.Bool
	recurringInFlight atomic.Bool
}

// NewReconciler creates a new Reconciler
func NewReconciler(loans *LoanService, investments *InvestmentService, recurring *RecurringService, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		loans:       loans,
		investments: investments,
		recurring:   recurring,
		logger:      logger,
	}
}

// RunAll runs every pass once and returns the combined result. This is
// the scheduler tick and the manual reconcile endpoint.
func (r *Reconciler) RunAll(ctx context.Context) PassResult {
	var result PassResult
	result.Add(r.RunEMIs(ctx))
	result.Add(r.RunSIPs(ctx))
	result.Add(r.RunInterest(ctx))
	result.Add(r.RunRecurring(ctx))
	return result
}

// RunEMIs runs the EMI pass unless one is already in flight
func (r *Reconciler) RunEMIs(ctx context.Context) PassResult {
	return r.guarded(&r.emiInFlight, "emi", func() PassResult {
		return r.loans.ProcessDueEMIs(ctx)
	})
}

// RunSIPs runs the SIP pass unless one is already in flight
func (r *Reconciler) RunSIPs(ctx context.Context) PassResult {
	return r.guarded(&r.sipInFlight, "sip", func() PassResult {
		return r.investments.ProcessDueSIPs(ctx)
	})
}

// RunInterest runs the annual interest pass unless one is already in flight
func (r *Reconciler) RunInterest(ctx context.Context) PassResult {
	return r.guarded(&r.interestInFlight, "interest", func() PassResult {
		return r.investments.ProcessDueInterest(ctx)
	})
}

// RunRecurring runs the recurring-template pass unless one is already in flight
func (r *Reconciler) RunRecurring(ctx context.Context) PassResult {
	return r.guarded(&r.recurringInFlight, "recurring", func() PassResult {
		return r.recurring.ProcessDueItems(ctx)
	})
}

func (r *Reconciler) guarded(flag *atomic.Bool, name string, pass func() PassResult) PassResult {
	if !flag.CompareAndSwap(false, true) {
		r.logger.Debug("pass already in flight, skipping", zap.String("pass", name))
		return PassResult{}
	}
	defer flag.Store(false)

	result := pass()
	if result.Processed > 0 || result.Failed > 0 {
		r.logger.Info("reconciliation pass finished",
			zap.String("pass", name),
			zap.Int("processed", result.Processed),
			zap.Int("failed", result.Failed),
		)
	}
	return result
}

// Handle reacts to obligation creation events by running the matching
// pass immediately, so a newly added loan or template posts its current
// period without waiting for the next scheduler tick
func (r *Reconciler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch event.EventType() {
	case finance.EventLoanCreated:
		r.RunEMIs(ctx)
	case finance.EventInvestmentCreated:
		r.RunSIPs(ctx)
		r.RunInterest(ctx)
	case finance.EventRecurringItemCreated:
		r.RunRecurring(ctx)
	}
	return nil
}

// EventTypes lists the creation events the reconciler reacts to
func (r *Reconciler) EventTypes() []string {
	return []string{
		finance.EventLoanCreated,
		finance.EventInvestmentCreated,
		finance.EventRecurringItemCreated,
	}
}
