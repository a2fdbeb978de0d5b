package amqp

import (
	"encoding/json"
	"time"
)

// Change operations carried on the wire.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// EntityChangeMessage notifies consumers that a record changed. It carries
// only the entity name, id and operation; consumers fetch the full record
// from the API if they need it.
type EntityChangeMessage struct {
	Entity    string    `json:"entity"`
	ID        int64     `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntityChangeMessage creates a change message stamped with the current time.
func NewEntityChangeMessage(entity string, id int64, op string) *EntityChangeMessage {
	return &EntityChangeMessage{
		Entity:    entity,
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *EntityChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntityChangeMessageFromJSON creates a message from JSON bytes.
func EntityChangeMessageFromJSON(data []byte) (*EntityChangeMessage, error) {
	var msg EntityChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
