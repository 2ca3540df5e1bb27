package entity

// Party holds the fields extracted for one side of an invoice
// (customer or supplier). Empty string means "not found".
type Party struct {
	Nombre    string `json:"nombre,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	RFC       string `json:"rfc,omitempty"`
}

// Empty reports whether no field of the party was extracted.
func (p Party) Empty() bool {
	return p.Nombre == "" && p.Direccion == "" && p.RFC == ""
}

// LineItem is one product/service row recovered from an invoice table.
// All fields optional; an item is retained only when Nombre or Cantidad
// is present.
type LineItem struct {
	Cantidad       string `json:"cantidad,omitempty"`
	Nombre         string `json:"nombre,omitempty"`
	PrecioUnitario string `json:"precio_unitario,omitempty"`
	Total          string `json:"total,omitempty"`
}

// InvoiceData is the structured result of invoice extraction. Every leaf
// field is optional; absence means "not found", never a sentinel error.
type InvoiceData struct {
	Cliente       Party      `json:"cliente"`
	Proveedor     Party      `json:"proveedor"`
	NumeroFactura string     `json:"numero_factura,omitempty"`
	Fecha         string     `json:"fecha,omitempty"`
	Productos     []LineItem `json:"productos"`
	Subtotal      string     `json:"subtotal,omitempty"`
	IVA           string     `json:"iva,omitempty"`
	Total         string     `json:"total,omitempty"`
}

// InformationData is the structured result for informational documents.
type InformationData struct {
	Descripcion string `json:"descripcion,omitempty"`
	Resumen     string `json:"resumen,omitempty"`
	Sentimiento string `json:"sentimiento,omitempty"`
}

// ClassificationResult is always produced, even when the OCR engine is
// unavailable — in that case Classification defaults to INFORMACIÓN with
// confidence 0 and a populated Error.
type ClassificationResult struct {
	Classification   string  `json:"classification"`
	Confidence       float64 `json:"confidence"`
	RawText          string  `json:"raw_text"`
	ProcessingTimeMS int64   `json:"processing_time_ms"`
	Error            string  `json:"error,omitempty"`
}
