// Package rental agrupa los servicios de dominio del motor de alquiler: disponibilidad por días,
// precio derivado de packs e imputación FIFO de ingresos a lotes de compra.
// Son funciones puras sobre entidades ya cargadas; la persistencia queda en los casos de uso.
package rental

import (
	"time"

	"github.com/daninav123/resonaweb/internal/domain/entity"
)

// DefaultLeadTimeBypassDays con más días de antelación que este umbral no se comprueba stock.
const DefaultLeadTimeBypassDays = 30

const day = 24 * time.Hour

// DayShortage primer día del rango en que no hay unidades suficientes.
type DayShortage struct {
	Date     time.Time
	Reserved int
}

// Day normaliza t a la medianoche UTC de su fecha de calendario.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil devuelve ceil((start - now) / 1 día). Negativo si el evento ya empezó.
func DaysUntil(now, start time.Time) int {
	diff := start.Sub(now)
	days := diff / day
	if diff%day > 0 {
		days++
	}
	return int(days)
}

// BypassesStockCheck indica si la antelación permite aprobar sin mirar stock.
func BypassesStockCheck(daysUntilEvent, thresholdDays int) bool {
	return daysUntilEvent > thresholdDays
}

// RentalDays días facturables entre dos fechas; un rango de 0 días cuenta como 1.
func RentalDays(start, end time.Time) int {
	days := int(Day(end).Sub(Day(start)) / day)
	if days < 1 {
		return 1
	}
	return days
}

// ReservedOn suma las unidades reservadas el día d. El solape es inclusivo en ambos extremos
// y las líneas de pedidos cancelados no cuentan.
func ReservedOn(d time.Time, reservations []*entity.OrderItem) int {
	d = Day(d)
	total := 0
	for _, r := range reservations {
		if r == nil || !r.Reserves() {
			continue
		}
		if !d.Before(Day(r.StartDate)) && !d.After(Day(r.EndDate)) {
			total += r.Quantity
		}
	}
	return total
}

// FirstShortage recorre cada día de calendario de [from, to] y devuelve el primero en que
// stock - reservado < requested. Devuelve nil si todo el rango es viable.
// Una petición de 0 unidades siempre es viable.
func FirstShortage(stock, requested int, from, to time.Time, reservations []*entity.OrderItem) *DayShortage {
	if requested <= 0 {
		return nil
	}
	last := Day(to)
	for d := Day(from); !d.After(last); d = d.AddDate(0, 0, 1) {
		reserved := ReservedOn(d, reservations)
		if stock-reserved < requested {
			return &DayShortage{Date: d, Reserved: reserved}
		}
	}
	return nil
}
