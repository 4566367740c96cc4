package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage tells the export worker that the ledger mutated.
// It carries only the mutation revision; the worker reloads the full
// ledger from storage rather than trusting message payloads.
type LedgerChangedMessage struct {
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage creates a message for the given revision.
func NewLedgerChangedMessage(revision int64) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
