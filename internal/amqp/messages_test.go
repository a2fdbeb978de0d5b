package amqp

import (
	"testing"
	"time"
)

func TestNewEntityChangeMessage(t *testing.T) {
	msg := NewEntityChangeMessage("transaction", 42, OpCreated)

	if msg.Entity != "transaction" {
		t.Errorf("Entity = %q, want transaction", msg.Entity)
	}
	if msg.ID != 42 {
		t.Errorf("ID = %d, want 42", msg.ID)
	}
	if msg.Op != OpCreated {
		t.Errorf("Op = %q, want %q", msg.Op, OpCreated)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestEntityChangeMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &EntityChangeMessage{
		Entity:    "budget",
		ID:        7,
		Op:        OpDeleted,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := EntityChangeMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("EntityChangeMessageFromJSON() error = %v", err)
	}

	if parsed.Entity != msg.Entity || parsed.ID != msg.ID || parsed.Op != msg.Op {
		t.Errorf("parsed = %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestEntityChangeMessage_InvalidJSON(t *testing.T) {
	if _, err := EntityChangeMessageFromJSON([]byte(`{"id": "not_a_number"}`)); err == nil {
		t.Error("EntityChangeMessageFromJSON() should fail with invalid JSON")
	}
}
