package invoice

import (
	"strings"

	"github.com/gestordocs/docanalyzer/internal/entity"
	"github.com/gestordocs/docanalyzer/internal/textract"
)

// Line-item column semantics.
const (
	colCantidad       = "cantidad"
	colNombre         = "nombre"
	colPrecioUnitario = "precio_unitario"
	colTotal          = "total"
)

// headerVocabulary marks a row as the header when any word matches.
var headerVocabulary = []string{"cantidad", "producto", "precio", "unitario", "total", "descripcion"}

// ParseProducts infers each table's header row and column semantics, then
// emits one LineItem per data row. Rows with neither nombre nor cantidad
// are dropped; unmapped columns fall back to content-based detection.
func ParseProducts(tables []textract.Table) []entity.LineItem {
	var products []entity.LineItem
	for _, t := range tables {
		products = append(products, parseTable(t)...)
	}
	return products
}

func parseTable(t textract.Table) []entity.LineItem {
	rows := t.RowNumbers()
	if len(rows) == 0 {
		return nil
	}

	headerRow, mapping, headerFound := inferHeader(t, rows)
	if !headerFound {
		// Positional default: assume (cantidad, nombre, precio_unitario,
		// total) for 4 columns, (cantidad, nombre, total) for 3.
		headerRow = rows[0]
		mapping = positionalMapping(t.ColumnNumbers(headerRow))
	}

	var items []entity.LineItem
	for _, rowNum := range rows {
		if rowNum == headerRow {
			continue
		}
		item := parseRow(t, rowNum, mapping)
		if item.Nombre != "" || item.Cantidad != "" {
			items = append(items, item)
		}
	}
	return items
}

// inferHeader scans rows in index order and picks the first whose
// concatenated lowercase text contains any vocabulary word. Column
// semantics come from per-cell keyword matches on that row.
func inferHeader(t textract.Table, rows []int) (int, map[int]string, bool) {
	for _, rowNum := range rows {
		cols := t.ColumnNumbers(rowNum)
		var texts []string
		for _, c := range cols {
			texts = append(texts, strings.ToLower(t.Rows[rowNum][c]))
		}
		joined := strings.Join(texts, " ")

		match := false
		for _, kw := range headerVocabulary {
			if strings.Contains(joined, kw) {
				match = true
				break
			}
		}
		if !match {
			continue
		}

		mapping := make(map[int]string)
		precioAssigned := false
		for _, c := range cols {
			cell := strings.TrimSpace(strings.ToLower(t.Rows[rowNum][c]))
			switch {
			case strings.Contains(cell, "cantidad") || strings.Contains(cell, "qty"):
				mapping[c] = colCantidad
			case strings.Contains(cell, "producto") || strings.Contains(cell, "descripcion") ||
				strings.Contains(cell, "nombre") || strings.Contains(cell, "item"):
				mapping[c] = colNombre
			case strings.Contains(cell, "precio") && strings.Contains(cell, "unitario"):
				mapping[c] = colPrecioUnitario
				precioAssigned = true
			case strings.Contains(cell, "precio"):
				// Could be unit price or a total; only claim the unit-price
				// slot if nothing else has, otherwise leave unmapped.
				if !precioAssigned {
					mapping[c] = colPrecioUnitario
					precioAssigned = true
				}
			case strings.Contains(cell, "total"):
				mapping[c] = colTotal
			}
		}
		return rowNum, mapping, true
	}
	return 0, nil, false
}

func positionalMapping(cols []int) map[int]string {
	mapping := make(map[int]string)
	switch {
	case len(cols) >= 4:
		mapping[cols[0]] = colCantidad
		mapping[cols[1]] = colNombre
		mapping[cols[2]] = colPrecioUnitario
		mapping[cols[3]] = colTotal
	case len(cols) == 3:
		mapping[cols[0]] = colCantidad
		mapping[cols[1]] = colNombre
		mapping[cols[2]] = colTotal
	}
	return mapping
}

func parseRow(t textract.Table, rowNum int, mapping map[int]string) entity.LineItem {
	var item entity.LineItem
	for _, c := range t.ColumnNumbers(rowNum) {
		text := strings.TrimSpace(t.Rows[rowNum][c])
		if text == "" {
			continue
		}
		field, mapped := mapping[c]
		if !mapped {
			assignByContent(&item, text)
			continue
		}
		switch field {
		case colCantidad:
			item.Cantidad = text
		case colNombre:
			item.Nombre = text
		case colPrecioUnitario:
			item.PrecioUnitario = amountOrRaw(text)
		case colTotal:
			item.Total = amountOrRaw(text)
		}
	}
	return item
}

// assignByContent fills the first open slot an unmapped cell plausibly
// belongs to: plain numbers are quantities, non-amounts are names, and
// money-looking values land on unit price then total.
func assignByContent(item *entity.LineItem, text string) {
	switch {
	case item.Cantidad == "" && isNumeric(text) && !strings.Contains(text, "$") && !looksLikeAmount(text):
		item.Cantidad = text
	case item.Nombre == "" && !looksLikeAmount(text):
		item.Nombre = text
	case item.PrecioUnitario == "" && looksLikeAmount(text):
		if amount, ok := NormalizeAmount(text); ok {
			item.PrecioUnitario = amount
		}
	case item.Total == "" && looksLikeAmount(text):
		if amount, ok := NormalizeAmount(text); ok {
			item.Total = amount
		}
	}
}

func amountOrRaw(text string) string {
	if amount, ok := NormalizeAmount(text); ok {
		return amount
	}
	return text
}
