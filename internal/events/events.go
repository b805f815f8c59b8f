package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventRecordDeleted = "record_deleted"
	EventExportCreated = "export_created"
	EventLoginFailed   = "login_failed"
)

// RecordDeletedPayload describes the booking removed from the dashboard.
type RecordDeletedPayload struct {
	RecordID    string `json:"record_id"`
	ParkingName string `json:"parking_name,omitempty"`
	Name        string `json:"name,omitempty"`
	DeletedBy   string `json:"deleted_by,omitempty"`
}

// ExportCreatedPayload describes a finished export file.
type ExportCreatedPayload struct {
	Format   string `json:"format"`
	Rows     int    `json:"rows"`
	Filename string `json:"filename"`
}

// LoginFailedPayload records a rejected login attempt.
type LoginFailedPayload struct {
	Email      string `json:"email"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
