package model

import (
	"time"
)

// AvailabilityStatus describes whether a product can currently be ordered.
type AvailabilityStatus string

const (
	InStock      AvailabilityStatus = "in_stock"
	OutOfStock   AvailabilityStatus = "out_of_stock"
	LimitedStock AvailabilityStatus = "limited_stock"
)

// AvailabilityStatuses lists every known status in a stable order.
var AvailabilityStatuses = []AvailabilityStatus{InStock, OutOfStock, LimitedStock}

// Valid reports whether s is one of the known statuses.
func (s AvailabilityStatus) Valid() bool {
	for _, known := range AvailabilityStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Product represents a catalog entry with its properties and metadata.
type Product struct {
	ID                 int64
	Name               string
	Description        string
	Category           string
	Brand              string
	Price              float64
	Quantity           int
	SKU                string
	ReleaseDate        time.Time
	AvailabilityStatus AvailabilityStatus
	CustomerRating     float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InitMeta stamps both timestamps with the same instant.
func (p *Product) InitMeta(now time.Time) {
	p.CreatedAt = now
	p.UpdatedAt = now
}

// ProductPatch carries a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name               *string
	Description        *string
	Category           *string
	Brand              *string
	Price              *float64
	Quantity           *int
	SKU                *string
	ReleaseDate        *time.Time
	AvailabilityStatus *AvailabilityStatus
	CustomerRating     *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Category == nil &&
		p.Brand == nil &&
		p.Price == nil &&
		p.Quantity == nil &&
		p.SKU == nil &&
		p.ReleaseDate == nil &&
		p.AvailabilityStatus == nil &&
		p.CustomerRating == nil
}
