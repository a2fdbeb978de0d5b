package services

import (
	"context"
	"fmt"
	"log/slog"

	"wealthtracker/internal/amqp"
	"wealthtracker/internal/backend"
	"wealthtracker/internal/core"
)

// ChangePublisher publishes entity change events. *amqp.Client satisfies it;
// tests substitute a fake.
type ChangePublisher interface {
	PublishEntityChange(ctx context.Context, entity string, id int64, op string) error
}

// Notifier wraps an optional publisher. A nil publisher turns every notify
// into a no-op, and a publish failure is logged but never propagated, so
// broker trouble cannot fail a write that already committed.
type Notifier struct {
	publisher ChangePublisher
}

func NewNotifier(publisher ChangePublisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// NewAMQPNotifier builds a Notifier from an AMQP client that may be nil.
// The nil check must happen on the concrete type: a nil *amqp.Client stored
// in the interface would not compare equal to nil anymore.
func NewAMQPNotifier(client *amqp.Client) *Notifier {
	if client == nil {
		return &Notifier{}
	}
	return &Notifier{publisher: client}
}

// EntityChanged publishes a change event for an entity.
func (n *Notifier) EntityChanged(ctx context.Context, entity string, id int64, op string) {
	if n == nil || n.publisher == nil {
		return
	}
	if err := n.publisher.PublishEntityChange(ctx, entity, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entity change",
			"entity", entity,
			"id", id,
			"op", op,
			"error", err)
	}
}

// TransactionService orchestrates transaction writes across the store and
// the change event stream.
type TransactionService struct {
	store    backend.Store
	notifier *Notifier
}

func NewTransactionService(store backend.Store, notifier *Notifier) *TransactionService {
	return &TransactionService{store: store, notifier: notifier}
}

// Create saves a transaction and publishes a change event.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", created.ID,
		"amount", created.Amount.String(),
		"account_id", created.AccountID)

	s.notifier.EntityChanged(ctx, "transaction", created.ID, amqp.OpCreated)
	return created, nil
}

// Update applies a merge patch to a transaction and publishes a change event.
func (s *TransactionService) Update(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	updated, err := s.store.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.notifier.EntityChanged(ctx, "transaction", id, amqp.OpUpdated)
	return updated, nil
}

// Delete removes a transaction and publishes a change event.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.notifier.EntityChanged(ctx, "transaction", id, amqp.OpDeleted)
	return nil
}
