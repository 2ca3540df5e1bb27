// Package invoice turns a forms+tables analysis response into a structured
// invoice record. Key-value pairs feed the field assigner, tables feed the
// product parser, and a regex pass over the raw text fills whatever the
// structured path left empty. Every leaf field is optional; empty means
// "not found", never an error.
package invoice

import (
	"log/slog"

	"github.com/gestordocs/docanalyzer/internal/entity"
	"github.com/gestordocs/docanalyzer/internal/textract"
)

// Parser extracts InvoiceData from an analysis response.
type Parser struct {
	Log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{Log: log}
}

// Parse builds the invoice record from resp, then uses rawText to fill
// gaps. The fallback never overwrites a populated field and each gap is
// probed independently, so a partial structured result stays intact.
func (p *Parser) Parse(resp *entity.AnalysisResponse, rawText string) entity.InvoiceData {
	var inv entity.InvoiceData

	pairs := textract.ExtractKeyValuePairs(resp)
	p.Log.Info("invoice.pairs.extracted", "count", len(pairs))

	tables := textract.ExtractTables(resp)
	AssignFields(&inv, pairs)

	inv.Productos = ParseProducts(tables)
	if len(inv.Productos) == 0 {
		p.Log.Warn("invoice.products.none")
	} else {
		p.Log.Info("invoice.products.extracted", "count", len(inv.Productos))
	}

	if rawText != "" {
		p.fillGaps(&inv, rawText)
	}
	return inv
}

func (p *Parser) fillGaps(inv *entity.InvoiceData, rawText string) {
	if inv.Cliente.Nombre == "" {
		fb := ParseText(rawText)
		if fb.Cliente.Nombre != "" {
			fillParty(&inv.Cliente, fb.Cliente)
			p.Log.Info("invoice.fallback.cliente", "nombre", inv.Cliente.Nombre)
		}
	}
	if inv.Proveedor.Nombre == "" {
		fb := ParseText(rawText)
		if fb.Proveedor.Nombre != "" {
			fillParty(&inv.Proveedor, fb.Proveedor)
			p.Log.Info("invoice.fallback.proveedor", "nombre", inv.Proveedor.Nombre)
		}
	}
	if inv.NumeroFactura == "" {
		if fb := ParseText(rawText); fb.NumeroFactura != "" {
			inv.NumeroFactura = fb.NumeroFactura
			p.Log.Info("invoice.fallback.numero_factura", "value", inv.NumeroFactura)
		}
	}
	if inv.Fecha == "" {
		if fb := ParseText(rawText); fb.Fecha != "" {
			inv.Fecha = fb.Fecha
		}
	}
	if inv.Total == "" {
		if fb := ParseText(rawText); fb.Total != "" {
			inv.Total = fb.Total
		}
	}
}

// fillParty copies only the fields dst is missing.
func fillParty(dst *entity.Party, src entity.Party) {
	if dst.Nombre == "" {
		dst.Nombre = src.Nombre
	}
	if dst.Direccion == "" {
		dst.Direccion = src.Direccion
	}
	if dst.RFC == "" {
		dst.RFC = src.RFC
	}
}
