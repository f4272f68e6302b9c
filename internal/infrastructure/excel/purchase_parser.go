// Package excel lee hojas .xlsx de lotes de compra.
package excel

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var headerAliases = map[string]string{
	"product id":      "product_id",
	"producto":        "product_id",
	"id producto":     "product_id",
	"quantity":        "quantity",
	"qty":             "quantity",
	"cantidad":        "quantity",
	"uds":             "quantity",
	"unidades":        "quantity",
	"unit price":      "unit_price",
	"precio unitario": "unit_price",
	"coste unitario":  "unit_price",
	"precio":          "unit_price",
	"purchase date":   "purchase_date",
	"fecha compra":    "purchase_date",
	"fecha":           "purchase_date",
	"supplier":        "supplier",
	"proveedor":       "supplier",
	"notes":           "notes",
	"notas":           "notes",
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", time.RFC3339}

// PurchaseParser implementa amortization.SheetParser con excelize.
type PurchaseParser struct{}

// NewPurchaseParser construye el lector.
func NewPurchaseParser() *PurchaseParser { return &PurchaseParser{} }

// ParsePurchaseRows lee la primera hoja. La primera fila es la cabecera; las filas sin producto se saltan.
// Columnas obligatorias: producto, cantidad y precio unitario.
func (p *PurchaseParser) ParsePurchaseRows(reader io.Reader) ([]dto.PurchaseImportRow, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("abrir excel: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el excel no tiene hojas")
	}
	rows, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("el excel está vacío")
	}

	colMap := mapColumns(rows[0])
	for _, required := range []string{"product_id", "quantity", "unit_price"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("falta la columna obligatoria: %s", required)
		}
	}

	result := make([]dto.PurchaseImportRow, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		rowNum := index + 1
		productID := strings.TrimSpace(readCell(cells, colMap["product_id"]))
		if productID == "" {
			continue
		}

		qty, err := parseInt(readCell(cells, colMap["quantity"]))
		if err != nil {
			return nil, fmt.Errorf("fila %d cantidad inválida: %w", rowNum, err)
		}
		price, err := parseDecimal(readCell(cells, colMap["unit_price"]))
		if err != nil {
			return nil, fmt.Errorf("fila %d precio inválido: %w", rowNum, err)
		}

		row := dto.PurchaseImportRow{
			Row:       rowNum,
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: price,
			Supplier:  optional(cells, colMap, "supplier"),
			Notes:     optional(cells, colMap, "notes"),
		}
		if raw := optional(cells, colMap, "purchase_date"); raw != "" {
			row.PurchaseDate, err = parseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("fila %d fecha inválida: %w", rowNum, err)
			}
		}
		result = append(result, row)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("el excel no tiene filas con datos")
	}
	return result, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		canonical, ok := headerAliases[normalizeHeader(col)]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func optional(cells []string, colMap map[string]int, key string) string {
	idx, ok := colMap[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(readCell(cells, idx))
}

func parseInt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("valor vacío")
	}
	asFloat, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("no es un número")
	}
	if math.Mod(asFloat, 1) != 0 {
		return 0, fmt.Errorf("debe ser entero")
	}
	return int(asFloat), nil
}

// parseDecimal acepta "1234.5", "1234,5" y "1.234,50".
func parseDecimal(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "€"))
	if value == "" {
		return decimal.Zero, fmt.Errorf("valor vacío")
	}
	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no es un número")
	}
	return d, nil
}

// parseDate acepta número de serie de Excel o fechas de texto.
func parseDate(raw string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato no reconocido: %q", raw)
}
