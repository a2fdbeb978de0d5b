package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wealthtracker/internal/amqp"
	"wealthtracker/internal/backend"
	"wealthtracker/internal/core"
)

// RecurringProcessor materializes due planned transactions into realized
// transactions. Materialized rows carry the is_planned flag so they remain
// distinguishable from hand-entered ones.
type RecurringProcessor struct {
	store    backend.Store
	notifier *Notifier
}

func NewRecurringProcessor(store backend.Store, notifier *Notifier) *RecurringProcessor {
	return &RecurringProcessor{store: store, notifier: notifier}
}

// ProcessDue checks every planned transaction whose schedule has started and
// materializes the due ones. It returns the number of transactions created.
// A failure on one planned transaction is logged and skipped, the rest of
// the batch still runs.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	// Schedules starting in the future are not eligible yet.
	planned, err := p.store.ListPlannedTransactions(ctx, core.TransactionFilter{End: &now})
	if err != nil {
		return 0, fmt.Errorf("list planned transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing planned transactions",
		"total_eligible", len(planned),
		"processing_date", now.Format("2006-01-02"))

	processedCount := 0

	for _, pt := range planned {
		checker, err := GetDuenessChecker(pt.Recurrence)
		if err != nil {
			slog.ErrorContext(ctx, "Unknown recurrence on planned transaction",
				"id", pt.ID,
				"recurrence", pt.Recurrence,
				"error", err)
			continue
		}

		if !checker.IsDue(pt.LastMaterializedAt, now, pt.TransactionDate) {
			continue
		}

		created, err := p.store.CreateTransaction(ctx, core.Transaction{
			Amount:          pt.Amount,
			Description:     pt.Description,
			TransactionDate: now,
			IsPlanned:       true,
			CategoryID:      pt.CategoryID,
			SubCategoryID:   pt.SubCategoryID,
			AccountID:       pt.AccountID,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize planned transaction",
				"planned_id", pt.ID,
				"description", pt.Description,
				"error", err)
			continue
		}

		if err := p.store.MarkPlannedMaterialized(ctx, pt.ID, now); err != nil {
			slog.ErrorContext(ctx, "Failed to update last materialization date",
				"planned_id", pt.ID,
				"error", err)
			// Continue anyway, the transaction was created.
		}

		p.notifier.EntityChanged(ctx, "transaction", created.ID, amqp.OpCreated)

		processedCount++
		slog.InfoContext(ctx, "Materialized planned transaction",
			"planned_id", pt.ID,
			"transaction_id", created.ID,
			"description", pt.Description,
			"amount", pt.Amount.String(),
			"recurrence", pt.Recurrence)
	}

	slog.InfoContext(ctx, "Planned transaction processing complete",
		"processed", processedCount,
		"total_checked", len(planned))

	return processedCount, nil
}

// Run processes due planned transactions on a fixed interval until the
// context is cancelled. The first pass runs immediately.
func (p *RecurringProcessor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.ProcessDue(ctx, time.Now().UTC()); err != nil {
			slog.ErrorContext(ctx, "Planned transaction processing failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
