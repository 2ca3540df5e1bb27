package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gestordocs/docanalyzer/internal/entity"
)

// Config for the HTTP engine client.
type Config struct {
	Endpoint string        // base URL of the analysis service
	APIKey   string        // bearer token, empty means unauthenticated
	Timeout  time.Duration // http client timeout
}

// Client is an Engine backed by a Textract-compatible HTTP service.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type analyzeRequest struct {
	Document string   `json:"Document"`
	Features []string `json:"FeatureTypes,omitempty"`
}

// DetectText runs the text-only pass.
func (c *Client) DetectText(ctx context.Context, document []byte) (*entity.AnalysisResponse, error) {
	return c.call(ctx, "/detect-document-text", analyzeRequest{
		Document: base64.StdEncoding.EncodeToString(document),
	})
}

// AnalyzeDocument runs the forms+tables pass.
func (c *Client) AnalyzeDocument(ctx context.Context, document []byte) (*entity.AnalysisResponse, error) {
	return c.call(ctx, "/analyze-document", analyzeRequest{
		Document: base64.StdEncoding.EncodeToString(document),
		Features: []string{"FORMS", "TABLES"},
	})
}

func (c *Client) call(ctx context.Context, path string, body analyzeRequest) (*entity.AnalysisResponse, error) {
	if c.cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}

	rid := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.log.Info("ocr.http.request", "req_id", rid, "path", path, "content_length", len(bs))

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("ocr.http.send_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("ocr.http.body_close_error", "req_id", rid, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.log.Info("ocr.http.response", "req_id", rid, "status", resp.StatusCode,
		"bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("ocr status %d: %s", resp.StatusCode, string(raw))
	}

	var out entity.AnalysisResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.log.Info("ocr.ok", "req_id", rid, "blocks", len(out.Blocks))
	return &out, nil
}
