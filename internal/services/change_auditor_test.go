package services

import (
	"testing"

	"wealthtracker/internal/amqp"
)

func TestChangeAuditorCountsPerEntityAndOp(t *testing.T) {
	a := NewChangeAuditor(nil)

	events := []*amqp.EntityChangeMessage{
		amqp.NewEntityChangeMessage("transaction", 1, amqp.OpCreated),
		amqp.NewEntityChangeMessage("transaction", 2, amqp.OpCreated),
		amqp.NewEntityChangeMessage("transaction", 1, amqp.OpDeleted),
		amqp.NewEntityChangeMessage("budget", 7, amqp.OpUpdated),
	}
	for _, msg := range events {
		if err := a.Handle(msg); err != nil {
			t.Fatalf("handle %s %s: %v", msg.Entity, msg.Op, err)
		}
	}

	cases := []struct {
		entity, op string
		want       int64
	}{
		{"transaction", amqp.OpCreated, 2},
		{"transaction", amqp.OpDeleted, 1},
		{"budget", amqp.OpUpdated, 1},
		{"budget", amqp.OpDeleted, 0},
	}
	for _, tc := range cases {
		if got := a.Count(tc.entity, tc.op); got != tc.want {
			t.Errorf("count(%s, %s) = %d, want %d", tc.entity, tc.op, got, tc.want)
		}
	}
}

func TestChangeAuditorRejectsBadMessages(t *testing.T) {
	a := NewChangeAuditor(nil)

	if err := a.Handle(nil); err == nil {
		t.Error("expected error for nil message")
	}
	if err := a.Handle(&amqp.EntityChangeMessage{ID: 1, Op: amqp.OpCreated}); err == nil {
		t.Error("expected error for missing entity")
	}
	if err := a.Handle(&amqp.EntityChangeMessage{Entity: "transaction", ID: 1}); err == nil {
		t.Error("expected error for missing op")
	}
	if got := a.Count("transaction", amqp.OpCreated); got != 0 {
		t.Errorf("rejected messages must not count, got %d", got)
	}
}
