package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un equipo del catálogo de alquiler.
// Stock es el número nominal de unidades; RealStock es el físico, usado al comprobar packs.
type Product struct {
	ID          string
	Name        string
	Stock       int
	RealStock   int
	PricePerDay decimal.Decimal // precio de alquiler por día
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
