package invoice

import "testing"

const sampleInvoiceText = `Factura No: INV-2025-001
Fecha: 15/03/2025

DATOS DEL CLIENTE
Nombre: Alice Johnson
Direccion: Calle Falsa 123
Colonia Centro
RFC: AAA010101AAA

DATOS DEL PROVEEDOR
Nombre: Acme Co
Direccion: Avenida Siempre Viva 742
RFC: BBB020202BBB

DETALLE
Total: $1,234.56
`

func TestParseTextFullDocument(t *testing.T) {
	inv := ParseText(sampleInvoiceText)

	if inv.Cliente.Nombre != "Alice Johnson" {
		t.Fatalf("cliente.nombre = %q", inv.Cliente.Nombre)
	}
	if inv.Cliente.Direccion != "Calle Falsa 123 Colonia Centro" {
		t.Fatalf("cliente.direccion = %q", inv.Cliente.Direccion)
	}
	if inv.Cliente.RFC != "AAA010101AAA" {
		t.Fatalf("cliente.rfc = %q", inv.Cliente.RFC)
	}
	if inv.Proveedor.Nombre != "Acme Co" {
		t.Fatalf("proveedor.nombre = %q", inv.Proveedor.Nombre)
	}
	if inv.Proveedor.RFC != "BBB020202BBB" {
		t.Fatalf("proveedor.rfc = %q", inv.Proveedor.RFC)
	}
	if inv.NumeroFactura != "INV-2025-001" {
		t.Fatalf("numero_factura = %q", inv.NumeroFactura)
	}
	if inv.Fecha != "15/03/2025" {
		t.Fatalf("fecha = %q", inv.Fecha)
	}
	if inv.Total != "1234.56" {
		t.Fatalf("total = %q", inv.Total)
	}
}

func TestParseTextEmpty(t *testing.T) {
	inv := ParseText("")
	if !inv.Cliente.Empty() || !inv.Proveedor.Empty() ||
		inv.NumeroFactura != "" || inv.Fecha != "" || inv.Total != "" {
		t.Fatalf("expected empty result, got %+v", inv)
	}
}

func TestParseTextBareDate(t *testing.T) {
	inv := ParseText("emitido el 1/2/25 sin etiqueta")
	if inv.Fecha != "1/2/25" {
		t.Fatalf("fecha = %q", inv.Fecha)
	}
}

func TestParseTextLooseInvoiceNumber(t *testing.T) {
	inv := ParseText("Documento No: 778899")
	if inv.NumeroFactura != "778899" {
		t.Fatalf("numero_factura = %q", inv.NumeroFactura)
	}
}
