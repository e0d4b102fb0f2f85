package amqp

import (
	"encoding/json"
	"time"
)

// Entities that can appear in a change message.
const (
	EntityAccount     = "account"
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
	EntityInvestment  = "investment"
	EntityGoal        = "goal"
	EntityRates       = "exchange_rates"
)

// Operations that can appear in a change message.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// StoreChangedMessage notifies listeners that a mutating store operation
// completed. It carries only the entity kind, operation and id; consumers
// that need the record fetch it from the store themselves.
type StoreChangedMessage struct {
	Entity    string    `json:"entity"`
	Op        string    `json:"op"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStoreChangedMessage creates a change message stamped with the current time.
func NewStoreChangedMessage(entity, op, id string) *StoreChangedMessage {
	return &StoreChangedMessage{
		Entity:    entity,
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StoreChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StoreChangedMessageFromJSON creates a message from JSON bytes
func StoreChangedMessageFromJSON(data []byte) (*StoreChangedMessage, error) {
	var msg StoreChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
