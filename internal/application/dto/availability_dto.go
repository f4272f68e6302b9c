package dto

import "time"

// ProductAvailabilityRequest body para POST /api/availability/product.
type ProductAvailabilityRequest struct {
	ProductID string    `json:"product_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Quantity  int       `json:"quantity"`
}

// PackAvailabilityRequest body para POST /api/availability/pack.
type PackAvailabilityRequest struct {
	PackID    string    `json:"pack_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Quantity  int       `json:"quantity"`
}

// AvailabilityResponse resultado de una comprobación. La falta de stock no es un error:
// Available=false y Shortages lista los productos que fallan con su primer día inviable.
// AutoApproved indica que la antelación superó el umbral y no se miró stock.
type AvailabilityResponse struct {
	Available      bool          `json:"available"`
	AutoApproved   bool          `json:"auto_approved"`
	DaysUntilEvent int           `json:"days_until_event"`
	Shortages      []ShortageDTO `json:"shortages,omitempty"`
}

// ShortageDTO producto sin unidades suficientes en Date.
type ShortageDTO struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Date        time.Time `json:"date"`
	Requested   int       `json:"requested"`
	Stock       int       `json:"stock"`
	Reserved    int       `json:"reserved"`
}
