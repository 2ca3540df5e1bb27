package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gestordocs/docanalyzer/constants"
	"github.com/gestordocs/docanalyzer/internal/entity"
)

// fakeEngine serves canned responses per pass.
type fakeEngine struct {
	detect     *entity.AnalysisResponse
	analyze    *entity.AnalysisResponse
	detectErr  error
	analyzeErr error
}

func (f *fakeEngine) DetectText(context.Context, []byte) (*entity.AnalysisResponse, error) {
	return f.detect, f.detectErr
}

func (f *fakeEngine) AnalyzeDocument(context.Context, []byte) (*entity.AnalysisResponse, error) {
	return f.analyze, f.analyzeErr
}

func lineBlocks(lines ...string) *entity.AnalysisResponse {
	resp := &entity.AnalysisResponse{}
	for i, l := range lines {
		resp.Blocks = append(resp.Blocks, entity.Block{
			ID:        string(rune('a' + i)),
			BlockType: entity.BlockTypeLine,
			Text:      l,
		})
	}
	return resp
}

func TestProcessEngineUnavailable(t *testing.T) {
	eng := &fakeEngine{detectErr: errors.New("credentials missing")}
	p := NewProcessor(eng, nil, nil)

	out := p.Process(context.Background(), []byte("doc"))

	if out.Result.Classification != string(constants.ClassificationInformacion) {
		t.Fatalf("classification = %q", out.Result.Classification)
	}
	if out.Result.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", out.Result.Confidence)
	}
	if out.Result.Error == "" {
		t.Fatal("error field should record the engine failure")
	}
	if out.Invoice != nil {
		t.Fatal("no invoice extraction should run")
	}
	if out.Information == nil {
		t.Fatal("informational result expected")
	}
}

func TestProcessInvoicePath(t *testing.T) {
	// Dense invoice vocabulary: 2 critical + enough weight for FACTURA.
	detect := lineBlocks(
		"Factura Invoice No: INV-1",
		"Cliente: Alice",
		"Proveedor: Acme",
		"Subtotal: $100.00",
		"IVA: $16.00",
		"Total: $116.00",
		"Cantidad Producto Precio Unitario",
		"RFC: AAA010101AAA",
		"Fecha: 01/02/2025",
		"Metodo de pago: tarjeta",
	)
	eng := &fakeEngine{detect: detect, analyze: &entity.AnalysisResponse{}}
	p := NewProcessor(eng, nil, nil)

	out := p.Process(context.Background(), []byte("doc"))

	if out.Result.Classification != string(constants.ClassificationFactura) {
		t.Fatalf("classification = %q", out.Result.Classification)
	}
	if out.Invoice == nil {
		t.Fatal("invoice extraction expected")
	}
	if out.Information != nil {
		t.Fatal("no informational extraction should run")
	}
	if out.Result.Confidence != 100 {
		t.Fatalf("confidence = %v, want 100 for 10 lines", out.Result.Confidence)
	}
	// Raw-text fallback fills the invoice number even though the analyze
	// pass returned no blocks.
	if out.Invoice.NumeroFactura == "" {
		t.Fatal("numero_factura should be filled from raw text")
	}
}

func TestProcessInvoiceAnalyzeFailureYieldsEmptyRecord(t *testing.T) {
	detect := lineBlocks(
		"Factura Invoice No: INV-1",
		"Cliente: Alice",
		"Proveedor: Acme",
		"Subtotal: $100.00",
		"IVA: $16.00",
		"Total: $116.00",
	)
	eng := &fakeEngine{detect: detect, analyzeErr: errors.New("throttled")}
	p := NewProcessor(eng, nil, nil)

	out := p.Process(context.Background(), []byte("doc"))

	if out.Result.Classification != string(constants.ClassificationFactura) {
		t.Fatalf("classification = %q", out.Result.Classification)
	}
	if out.Invoice == nil {
		t.Fatal("an empty invoice record is still produced")
	}
	if !out.Invoice.Cliente.Empty() || out.Invoice.Total != "" {
		t.Fatalf("invoice should be empty, got %+v", out.Invoice)
	}
	if out.Result.Error != "" {
		t.Fatalf("analyze failure must not surface as error, got %q", out.Result.Error)
	}
}

func TestExtractInformationDerivation(t *testing.T) {
	p := NewProcessor(&fakeEngine{}, nil, nil)

	text := "Primer parrafo\nSegundo parrafo\nTercer parrafo\nCuarto"
	info := p.ExtractInformation(context.Background(), text)

	if info.Descripcion != "Primer parrafo" {
		t.Fatalf("descripcion = %q", info.Descripcion)
	}
	if info.Resumen != "Primer parrafo Segundo parrafo Tercer parrafo" {
		t.Fatalf("resumen = %q", info.Resumen)
	}
	if info.Sentimiento != "neutral" {
		t.Fatalf("sentimiento = %q", info.Sentimiento)
	}
}

func TestExtractInformationFewParagraphs(t *testing.T) {
	p := NewProcessor(&fakeEngine{}, nil, nil)

	long := strings.Repeat("x", 600)
	info := p.ExtractInformation(context.Background(), long)

	if len(info.Descripcion) != 500 {
		t.Fatalf("descripcion length = %d, want 500", len(info.Descripcion))
	}
	if len(info.Resumen) != 500 {
		t.Fatalf("resumen length = %d, want 500", len(info.Resumen))
	}
}

func TestExtractInformationEmptyText(t *testing.T) {
	p := NewProcessor(&fakeEngine{}, nil, nil)

	info := p.ExtractInformation(context.Background(), "")
	if info.Descripcion != "" || info.Resumen != "" || info.Sentimiento != "" {
		t.Fatalf("expected zero value, got %+v", info)
	}
}
