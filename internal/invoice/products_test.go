package invoice

import (
	"testing"

	"github.com/gestordocs/docanalyzer/internal/textract"
)

func gridTable(rows [][]string) textract.Table {
	t := textract.Table{Rows: make(map[int]map[int]string)}
	for ri, row := range rows {
		t.Rows[ri+1] = make(map[int]string)
		for ci, cell := range row {
			t.Rows[ri+1][ci+1] = cell
		}
	}
	return t
}

func TestParseProductsWithHeader(t *testing.T) {
	tbl := gridTable([][]string{
		{"Cantidad", "Producto", "Precio Unitario", "Total"},
		{"2", "Widget", "$10.00", "$20.00"},
	})

	got := ParseProducts([]textract.Table{tbl})
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	item := got[0]
	if item.Cantidad != "2" || item.Nombre != "Widget" ||
		item.PrecioUnitario != "10.00" || item.Total != "20.00" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestParseProductsPositionalDefault(t *testing.T) {
	// No header keywords and 4 columns: first row is treated as the header
	// and the remaining rows map positionally.
	tbl := gridTable([][]string{
		{"A", "B", "C", "D"},
		{"3", "Gadget", "$5.00", "$15.00"},
	})

	got := ParseProducts([]textract.Table{tbl})
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	item := got[0]
	if item.Cantidad != "3" || item.Nombre != "Gadget" ||
		item.PrecioUnitario != "5.00" || item.Total != "15.00" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestParseProductsThreeColumnDefault(t *testing.T) {
	tbl := gridTable([][]string{
		{"X", "Y", "Z"},
		{"1", "Cable", "$7.50"},
	})

	got := ParseProducts([]textract.Table{tbl})
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	item := got[0]
	if item.Cantidad != "1" || item.Nombre != "Cable" || item.Total != "7.50" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.PrecioUnitario != "" {
		t.Fatalf("precio_unitario should be empty, got %q", item.PrecioUnitario)
	}
}

func TestParseProductsDropsRowsWithoutNameOrQuantity(t *testing.T) {
	tbl := gridTable([][]string{
		{"Cantidad", "Producto", "Total"},
		{"", "", "$99.00"},
		{"5", "Tornillos", "$2.00"},
	})

	got := ParseProducts([]textract.Table{tbl})
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].Nombre != "Tornillos" {
		t.Fatalf("unexpected item: %+v", got[0])
	}
}

func TestParseProductsEmptyTables(t *testing.T) {
	if got := ParseProducts(nil); got != nil {
		t.Fatalf("want nil for no tables, got %+v", got)
	}
}
