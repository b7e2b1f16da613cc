package finance

import (
	"context"

	"github.com/fintrack/backend/internal/domain/finance"
	"go.uber.org/zap"
)

// IdempotentPoster writes auto-generated ledger entries exactly once.
//
// The entry's synthetic key is its store identity: PostOnce writes with
// create-or-replace semantics, so however many times a posting is
// retried for the same (kind, source, period), exactly one entry
// survives, holding the last payload. CleanupDuplicates is the
// reconciliation pass for the race window where concurrent passes
// managed to insert unkeyed duplicates before the keyed write landed.
type IdempotentPoster struct {
	entries finance.LedgerEntryRepository
	logger  *zap.Logger
}

// NewIdempotentPoster creates a new IdempotentPoster
func NewIdempotentPoster(entries finance.LedgerEntryRepository, logger *zap.Logger) *IdempotentPoster {
	return &IdempotentPoster{
		entries: entries,
		logger:  logger,
	}
}

// PostOnce writes the entry under its idempotency key. It reports
// success instead of raising: a failed post leaves the source's gating
// field untouched, and the next reconciliation pass retries naturally.
func (p *IdempotentPoster) PostOnce(ctx context.Context, entry *finance.LedgerEntry) bool {
	if entry.EntryKey == "" {
		p.logger.Error("refusing keyless entry on the idempotent path",
			zap.String("entry_id", entry.ID.String()),
		)
		return false
	}
	if err := p.entries.SaveKeyed(ctx, entry); err != nil {
		p.logger.Error("idempotent post failed",
			zap.String("entry_key", entry.EntryKey),
			zap.Error(err),
		)
		return false
	}
	return true
}

// PostUnkeyed inserts an entry that carries no idempotency key, such as
// an annual interest credit. Re-entry protection lives entirely in the
// source aggregate's gating field, so the caller must persist that gate
// before invoking this.
func (p *IdempotentPoster) PostUnkeyed(ctx context.Context, entry *finance.LedgerEntry) error {
	if entry.EntryKey != "" {
		return p.entries.SaveKeyed(ctx, entry)
	}
	return p.entries.Save(ctx, entry)
}

// CleanupDuplicates removes every ledger entry for the same source and
// period whose key is not keepKey. Deletion is irreversible; failures
// are logged and swallowed, the pass stays best-effort.
func (p *IdempotentPoster) CleanupDuplicates(ctx context.Context, kind finance.SourceKind, entry *finance.LedgerEntry) {
	sourceID := entry.SourceID()
	if sourceID == nil || entry.Period == nil {
		return
	}
	removed, err := p.entries.DeleteDuplicates(ctx, kind, *sourceID, *entry.Period, entry.EntryKey)
	if err != nil {
		p.logger.Warn("duplicate cleanup failed",
			zap.String("entry_key", entry.EntryKey),
			zap.Error(err),
		)
		return
	}
	if removed > 0 {
		p.logger.Info("removed duplicate ledger entries",
			zap.String("entry_key", entry.EntryKey),
			zap.Int64("removed", removed),
		)
	}
}
