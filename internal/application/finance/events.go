package finance

import (
	"context"

	"github.com/fintrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents drains an aggregate's pending domain events onto the bus.
// Publishing is best-effort: handlers are advisory and a failure must not
// roll back the write that produced the events.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("event publish failed", zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}

// PassResult summarizes one reconciliation pass over a collection of
// obligations
type PassResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Add folds another pass result into this one
func (r *PassResult) Add(other PassResult) {
	r.Processed += other.Processed
	r.Failed += other.Failed
}
