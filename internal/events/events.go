package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event topic constants
const (
	TopicConfigUpdated = "granja.config.updated"
	TopicConfigAll     = "granja.config.>"

	TopicRecordCreated = "granja.record.created"
	TopicRecordUpdated = "granja.record.updated"
	TopicRecordDeleted = "granja.record.deleted"
	TopicRecordAll     = "granja.record.>"

	TopicAll = "granja.>"
)

// Event types

// ConfigUpdated is published after a configuration group was replaced.
type ConfigUpdated struct {
	Group string          `json:"group"`
	Value json.RawMessage `json:"value,omitempty"`
	By    string          `json:"by,omitempty"`
	At    time.Time       `json:"at"`
}

// RecordChanged is published after a resource record was created, updated
// or deleted through a page container.
type RecordChanged struct {
	Resource string    `json:"resource"`
	ID       string    `json:"id"`
	By       string    `json:"by,omitempty"`
	At       time.Time `json:"at"`
}

// Envelope is what subscribers decode: the subject the payload arrived on
// plus the raw JSON.
type Envelope struct {
	Topic string
	Data  []byte
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
