package sqs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iyhunko/product-catalog/internal/model"
)

// eventTypeAttribute is the SQS message attribute carrying the catalog event type.
const eventTypeAttribute = "event_type"

// CatalogMessage is the body of every message sent to the catalog queue.
type CatalogMessage struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	ProductID  int64     `json:"product_id,omitempty"`
	SKU        string    `json:"sku,omitempty"`
	Name       string    `json:"name,omitempty"`
	Price      float64   `json:"price,omitempty"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MessageFromEvent converts an outbox event into its queue representation.
func MessageFromEvent(event *model.Event) (CatalogMessage, error) {
	var data model.CatalogEventData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return CatalogMessage{}, fmt.Errorf("failed to decode event data: %w", err)
	}
	return CatalogMessage{
		EventID:    event.ID.String(),
		EventType:  event.EventType,
		ProductID:  data.ProductID,
		SKU:        data.SKU,
		Name:       data.Name,
		Price:      data.Price,
		Count:      data.Count,
		OccurredAt: event.CreatedAt,
	}, nil
}
