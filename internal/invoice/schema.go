package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the extracted invoice record, as a generic map. Used to validate the
// record before it is persisted or served.
func BuildInvoiceJSONSchema() map[string]any {
	amount := map[string]any{"type": "string", "pattern": `^(\d[\d,]*\.?\d*)?$`}

	party := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"nombre":    map[string]any{"type": "string"},
			"direccion": map[string]any{"type": "string"},
			"rfc":       map[string]any{"type": "string"},
		},
	}

	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"cantidad":        map[string]any{"type": "string"},
			"nombre":          map[string]any{"type": "string"},
			"precio_unitario": map[string]any{"type": "string"},
			"total":           map[string]any{"type": "string"},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"cliente":        party,
			"proveedor":      party,
			"numero_factura": map[string]any{"type": "string"},
			"fecha":          map[string]any{"type": "string"},
			"productos":      map[string]any{"type": []any{"array", "null"}, "items": lineItem},
			"subtotal":       amount,
			"iva":            amount,
			"total":          amount,
		},
	}
}

// MarshalRecord encodes the invoice record and validates the encoding
// against the schema, so callers persist exactly the bytes that were
// checked.
func MarshalRecord(inv entity.InvoiceData) (json.RawMessage, error) {
	data, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice: %w", err)
	}
	if err := ValidateJSON(BuildInvoiceJSONSchema(), data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateJSON validates data against schemaMap.
func ValidateJSON(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
