package invoice

import (
	"strings"

	"github.com/gestordocs/docanalyzer/internal/entity"
	"github.com/gestordocs/docanalyzer/internal/textract"
)

// Keyword families for routing key-value pairs to parties and metadata.
var (
	clienteFamily   = []string{"cliente", "client", "customer", "comprador"}
	proveedorFamily = []string{"proveedor", "provider", "vendor", "supplier", "vendedor"}
	invoiceNoPhrases = []string{
		"número de factura", "numero de factura", "invoice number",
		"factura no", "factura numero", "invoice no",
	}
	datePhrases = []string{"fecha", "date", "fecha de factura", "invoice date"}
)

// assignState threads the section flags and per-field guards through one
// left-to-right pass, so the pass has no dependence on invocation history.
type assignState struct {
	inCliente   bool
	inProveedor bool

	clienteNombre      bool
	clienteDireccion   bool
	clienteRFC         bool
	proveedorNombre    bool
	proveedorDireccion bool
	proveedorRFC       bool
}

// AssignFields routes an ordered key-value list into inv. The pairs must be
// in vertical document order: the only signals separating customer from
// supplier fields are explicit section headings and the convention that
// customer fields come first. The first bare "nombre" therefore goes to the
// customer and later ones to the supplier; documents that list the supplier
// first will be mis-attributed, which is accepted for determinism.
func AssignFields(inv *entity.InvoiceData, pairs []textract.KeyValuePair) {
	var st assignState
	for _, p := range pairs {
		key := p.Key
		origKey := strings.ToLower(p.OriginalKey)
		value := strings.TrimSpace(p.Value)

		// Section headings switch context and are consumed: their value is
		// layout noise, not a field.
		if strings.Contains(origKey, "datos del cliente") ||
			(strings.Contains(origKey, "cliente") && strings.Contains(origKey, "datos")) {
			st.inCliente, st.inProveedor = true, false
			continue
		}
		if strings.Contains(origKey, "datos del proveedor") ||
			(strings.Contains(origKey, "proveedor") && strings.Contains(origKey, "datos")) {
			st.inProveedor, st.inCliente = true, false
			continue
		}

		switch {
		case strings.Contains(key, "rfc"):
			st.assignRFC(inv, value)

		case containsAny(key, clienteFamily):
			st.assignClienteField(inv, key, value)

		case containsAny(key, proveedorFamily):
			st.assignProveedorField(inv, key, value)

		case strings.Contains(key, "nombre") || strings.Contains(key, "name"):
			st.assignBareNombre(inv, value)

		case strings.Contains(key, "direccion") || strings.Contains(key, "dirección") ||
			strings.Contains(key, "address"):
			st.assignBareDireccion(inv, value)

		case containsAny(key, invoiceNoPhrases):
			inv.NumeroFactura = value

		case containsAny(key, datePhrases):
			inv.Fecha = value

		case strings.Contains(key, "total") && !strings.Contains(key, "subtotal") &&
			!strings.Contains(key, "iva"):
			inv.Total, _ = NormalizeAmount(value)

		case strings.Contains(key, "subtotal"):
			inv.Subtotal, _ = NormalizeAmount(value)

		case strings.Contains(key, "iva") || strings.Contains(key, "tax") ||
			strings.Contains(key, "impuesto"):
			inv.IVA, _ = NormalizeAmount(value)
		}
	}
}

// assignRFC picks the party by section context, then by order: once the
// customer's RFC is taken, a later unsectioned RFC belongs to the supplier.
func (st *assignState) assignRFC(inv *entity.InvoiceData, value string) {
	if st.inProveedor || (!st.inCliente && !st.proveedorRFC && st.clienteRFC) {
		if !st.proveedorRFC {
			inv.Proveedor.RFC = value
			st.proveedorRFC = true
		}
		return
	}
	if !st.clienteRFC {
		inv.Cliente.RFC = value
		st.clienteRFC = true
	}
}

func (st *assignState) assignClienteField(inv *entity.InvoiceData, key, value string) {
	switch {
	case strings.Contains(key, "nombre") || strings.Contains(key, "name"):
		inv.Cliente.Nombre = value
		st.clienteNombre = true
	case strings.Contains(key, "direccion") || strings.Contains(key, "dirección") ||
		strings.Contains(key, "address"):
		inv.Cliente.Direccion = value
		st.clienteDireccion = true
	case strings.Contains(key, "rfc"):
		inv.Cliente.RFC = value
		st.clienteRFC = true
	default:
		// A bare "Cliente:" label usually carries the name.
		if !st.clienteNombre {
			inv.Cliente.Nombre = value
			st.clienteNombre = true
		}
	}
}

func (st *assignState) assignProveedorField(inv *entity.InvoiceData, key, value string) {
	switch {
	case strings.Contains(key, "nombre") || strings.Contains(key, "name"):
		inv.Proveedor.Nombre = value
		st.proveedorNombre = true
	case strings.Contains(key, "direccion") || strings.Contains(key, "dirección") ||
		strings.Contains(key, "address"):
		inv.Proveedor.Direccion = value
		st.proveedorDireccion = true
	case strings.Contains(key, "rfc"):
		inv.Proveedor.RFC = value
		st.proveedorRFC = true
	default:
		if !st.proveedorNombre {
			inv.Proveedor.Nombre = value
			st.proveedorNombre = true
		}
	}
}

func (st *assignState) assignBareNombre(inv *entity.InvoiceData, value string) {
	switch {
	case st.inProveedor:
		if !st.proveedorNombre {
			inv.Proveedor.Nombre = value
			st.proveedorNombre = true
		}
	case st.inCliente || !st.clienteNombre:
		if !st.clienteNombre {
			inv.Cliente.Nombre = value
			st.clienteNombre = true
		}
	default:
		if !st.proveedorNombre {
			inv.Proveedor.Nombre = value
			st.proveedorNombre = true
		}
	}
}

func (st *assignState) assignBareDireccion(inv *entity.InvoiceData, value string) {
	switch {
	case st.inProveedor:
		if !st.proveedorDireccion {
			inv.Proveedor.Direccion = value
			st.proveedorDireccion = true
		}
	case st.inCliente || !st.clienteDireccion:
		if !st.clienteDireccion {
			inv.Cliente.Direccion = value
			st.clienteDireccion = true
		}
	default:
		if !st.proveedorDireccion {
			inv.Proveedor.Direccion = value
			st.proveedorDireccion = true
		}
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
