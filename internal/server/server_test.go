package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gestordocs/docanalyzer/constants"
	"github.com/gestordocs/docanalyzer/internal/entity"
	"github.com/gestordocs/docanalyzer/internal/export"
	"github.com/gestordocs/docanalyzer/internal/invoice"
	"github.com/gestordocs/docanalyzer/internal/ocr"
	"github.com/gestordocs/docanalyzer/internal/pipeline"
	"github.com/gestordocs/docanalyzer/internal/repository"
	"github.com/gestordocs/docanalyzer/internal/storage"
)

func newTestRouter(t *testing.T, engine ocr.Engine) http.Handler {
	t.Helper()

	repo, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(repo.Close)
	if err := repo.EnsureSchema(t.Context()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	proc := pipeline.NewProcessor(engine, nil, nil)
	svc := NewService(repo, storage.New(t.TempDir()), proc, nil)

	return NewRouter(Options{
		Service:        svc,
		Export:         export.NewService(repo, nil),
		MaxUploadBytes: 1 << 20,
	})
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, ocr.Disabled{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUploadWithEngineUnavailable(t *testing.T) {
	// OCR switched off: the document still reaches DONE, classified as
	// informational with the failure recorded on the row.
	r := newTestRouter(t, ocr.Disabled{})

	body, ctype := multipartBody(t, "file", "doc.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Document entity.Document `json:"document"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Document.Status != string(constants.DocStatusDone) {
		t.Fatalf("status = %q", resp.Document.Status)
	}
	if resp.Document.Classification != string(constants.ClassificationInformacion) {
		t.Fatalf("classification = %q", resp.Document.Classification)
	}
	if resp.Document.ErrorMessage == nil {
		t.Fatal("error message should record engine unavailability")
	}
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	r := newTestRouter(t, ocr.Disabled{})

	body, ctype := multipartBody(t, "file", "malware.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUploadInvoicePath(t *testing.T) {
	resp := &entity.AnalysisResponse{}
	for i, l := range []string{
		"Factura Invoice No: INV-7",
		"Cliente: Alice",
		"Proveedor: Acme",
		"Subtotal: $100.00",
		"IVA: $16.00",
		"Total: $116.00",
	} {
		resp.Blocks = append(resp.Blocks, entity.Block{
			ID:        string(rune('a' + i)),
			BlockType: entity.BlockTypeLine,
			Text:      l,
		})
	}
	r := newTestRouter(t, ocr.NewStatic(resp))

	body, ctype := multipartBody(t, "file", "factura.png", []byte("fake-image"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var out struct {
		Document entity.Document `json:"document"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Document.Classification != string(constants.ClassificationFactura) {
		t.Fatalf("classification = %q", out.Document.Classification)
	}
	if len(out.Document.ExtractedJSON) == 0 {
		t.Fatal("extracted_json should carry the invoice record")
	}
	if err := invoice.ValidateJSON(invoice.BuildInvoiceJSONSchema(), out.Document.ExtractedJSON); err != nil {
		t.Fatalf("persisted payload does not match the invoice schema: %v", err)
	}

	// History should list the stored document.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents?classification=FACTURA", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Documents []entity.Document `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Documents) != 1 {
		t.Fatalf("got %d documents, want 1", len(list.Documents))
	}

	// And the detail endpoint returns events.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/"+out.Document.ID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var detail struct {
		Document entity.Document `json:"document"`
		Events   []entity.Event  `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(detail.Events))
	}
}

func TestUploadLogsRequestAndDocumentIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	repo, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(repo.Close)
	if err := repo.EnsureSchema(t.Context()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	proc := pipeline.NewProcessor(ocr.Disabled{}, nil, logger)
	svc := NewService(repo, storage.New(t.TempDir()), proc, logger)
	r := NewRouter(Options{
		Service:        svc,
		Export:         export.NewService(repo, logger),
		MaxUploadBytes: 1 << 20,
		Log:            logger,
	})

	body, ctype := multipartBody(t, "file", "doc.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	logs := buf.String()
	for _, attr := range []string{"request_id=", "document_id="} {
		i := strings.Index(logs, attr)
		if i < 0 {
			t.Fatalf("logs missing %s attr:\n%s", attr, logs)
		}
		rest := logs[i+len(attr):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\n' {
			t.Fatalf("%s attr is empty:\n%s", attr, logs)
		}
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	r := newTestRouter(t, ocr.Disabled{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/documents/00000000-0000-0000-0000-000000000001", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	r := newTestRouter(t, ocr.Disabled{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/xlsx", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", ct)
	}
}
