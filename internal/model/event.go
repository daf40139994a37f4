package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the status of an event in the outbox pattern.
type EventStatus string

const (
	// EventStatusPending indicates the event has been created but not yet published
	EventStatusPending EventStatus = "pending"
	// EventStatusProcessed indicates the event has been published to the queue
	EventStatusProcessed EventStatus = "processed"
	// EventStatusFailed indicates publishing has failed
	EventStatusFailed EventStatus = "failed"
)

// Catalog event types.
const (
	EventProductCreated    = "product.created"
	EventProductUpdated    = "product.updated"
	EventProductDeleted    = "product.deleted"
	EventProductsGenerated = "products.generated"
)

// Event is an outbox entry describing a catalog change.
type Event struct {
	ID          uuid.UUID
	EventType   string
	EventData   json.RawMessage
	Status      EventStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// InitMeta assigns an ID and creation time, and defaults the status to pending.
func (e *Event) InitMeta(now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = now
	if e.Status == "" {
		e.Status = EventStatusPending
	}
}

// CatalogEventData is the payload stored with every catalog event.
type CatalogEventData struct {
	ProductID int64   `json:"product_id,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Count     int     `json:"count,omitempty"`
}

// NewEvent builds a pending event with data marshaled to JSON.
func NewEvent(eventType string, data CatalogEventData) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &Event{
		EventType: eventType,
		EventData: raw,
		Status:    EventStatusPending,
	}, nil
}

// ProductEvent builds an event describing a single product.
func ProductEvent(eventType string, p *Product) (*Event, error) {
	return NewEvent(eventType, CatalogEventData{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     p.Price,
	})
}
