package invoice

import (
	"regexp"
	"strings"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

// Regexes for recovering fields straight from assembled text when the block
// graph yields nothing usable. Boundaries are consumed rather than asserted,
// which is equivalent here because the captures end before them.
var (
	reClienteSection   = regexp.MustCompile(`(?is)DATOS\s+DEL\s+CLIENTE[^\n]*\n(.*?)(?:DATOS\s+DEL\s+PROVEEDOR|DETALLE|$)`)
	reProveedorSection = regexp.MustCompile(`(?is)DATOS\s+DEL\s+PROVEEDOR[^\n]*\n(.*?)(?:DETALLE|TOTAL|$)`)

	reNombre    = regexp.MustCompile(`(?i)Nombre\s*:?\s*([^\n]+)`)
	reDireccion = regexp.MustCompile(`(?is)Direcci[oó]n\s*:?\s*(.*?)(?:RFC|$)`)
	reRFC       = regexp.MustCompile(`(?i)RFC\s*:?\s*([A-Z0-9]+)`)

	reInvoiceNumber      = regexp.MustCompile(`(?i)(?:factura|invoice)\s*(?:no|numero|number|#)?\s*:?\s*([A-Z0-9\-]+)`)
	reInvoiceNumberLoose = regexp.MustCompile(`(?i)(?:no|numero|number|#)\s*:?\s*([A-Z0-9\-]+)`)

	reDateLabeled = regexp.MustCompile(`(?i)(?:fecha|date)\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`)
	reDateBare    = regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`)

	reTotal = regexp.MustCompile(`(?i)total\s*:?\s*\$?\s*([\d,]+\.?\d*)`)
)

// ParseText recovers invoice fields from raw assembled text with regexes
// alone, independent of the block graph. It is the gap-filler behind
// structured extraction; missing fields stay empty.
func ParseText(rawText string) entity.InvoiceData {
	var inv entity.InvoiceData

	if m := reClienteSection.FindStringSubmatch(rawText); m != nil {
		inv.Cliente = parseParty(m[1])
	}
	if m := reProveedorSection.FindStringSubmatch(rawText); m != nil {
		inv.Proveedor = parseParty(m[1])
	}

	if m := reInvoiceNumber.FindStringSubmatch(rawText); m != nil {
		inv.NumeroFactura = strings.TrimSpace(m[1])
	} else if m := reInvoiceNumberLoose.FindStringSubmatch(rawText); m != nil {
		inv.NumeroFactura = strings.TrimSpace(m[1])
	}

	if m := reDateLabeled.FindStringSubmatch(rawText); m != nil {
		inv.Fecha = strings.TrimSpace(m[1])
	} else if m := reDateBare.FindString(rawText); m != "" {
		inv.Fecha = m
	}

	if m := reTotal.FindStringSubmatch(rawText); m != nil {
		inv.Total, _ = NormalizeAmount(m[1])
	}

	return inv
}

func parseParty(sectionText string) entity.Party {
	var p entity.Party
	if m := reNombre.FindStringSubmatch(sectionText); m != nil {
		p.Nombre = strings.TrimSpace(m[1])
	}
	if m := reDireccion.FindStringSubmatch(sectionText); m != nil {
		p.Direccion = collapseLines(m[1])
	}
	if m := reRFC.FindStringSubmatch(sectionText); m != nil {
		p.RFC = strings.TrimSpace(m[1])
	}
	return p
}

// collapseLines joins a multi-line capture into one space-separated string.
func collapseLines(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
