package services

import (
	"errors"
	"log/slog"
	"sync"

	"wealthtracker/internal/amqp"
)

// ChangeAuditor consumes entity change events and writes one audit log line
// per change, keeping per-entity-and-op counters. Returning an error from
// Handle makes the consumer requeue the delivery.
type ChangeAuditor struct {
	logger *slog.Logger

	mu     sync.Mutex
	counts map[string]int64
}

func NewChangeAuditor(logger *slog.Logger) *ChangeAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeAuditor{
		logger: logger,
		counts: make(map[string]int64),
	}
}

// Handle records a single change event. It is the handler passed to
// amqp.Client.ConsumeEntityChanges.
func (a *ChangeAuditor) Handle(msg *amqp.EntityChangeMessage) error {
	if msg == nil {
		return errors.New("nil change message")
	}
	if msg.Entity == "" || msg.Op == "" {
		return errors.New("change message missing entity or op")
	}

	a.mu.Lock()
	a.counts[msg.Entity+":"+msg.Op]++
	seen := a.counts[msg.Entity+":"+msg.Op]
	a.mu.Unlock()

	a.logger.Info("Entity changed",
		"entity", msg.Entity,
		"id", msg.ID,
		"op", msg.Op,
		"at", msg.Timestamp,
		"seen", seen)
	return nil
}

// Count returns how many events for the entity and op have been handled.
func (a *ChangeAuditor) Count(entity, op string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[entity+":"+op]
}
