// Package ai enriches informational documents with sentiment and summary
// via an OpenAI-compatible chat/completions endpoint. Enrichment is best
// effort: a missing key or a failed call leaves the document's own derived
// fields in place.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentiment labels returned by AnalyzeSentiment.
const (
	SentimentPositive = "positivo"
	SentimentNegative = "negativo"
	SentimentNeutral  = "neutral"
)

// Config for the enrichment client.
type Config struct {
	APIKey      string  // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string  // default https://api.openai.com/v1
	Model       string  // e.g. "gpt-4o-mini"
	Temperature float32 // 0..2
	Timeout     time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
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

// Enabled reports whether the client has credentials to call out.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.APIKey != ""
}

// AnalyzeSentiment labels text as positivo, negativo or neutral. Unexpected
// answers collapse to neutral.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (string, error) {
	content, err := c.chat(ctx,
		"Clasifica el sentimiento del texto. Responde con una sola palabra: positivo, negativo o neutral.",
		clip(text, 3000))
	if err != nil {
		return "", err
	}
	switch s := strings.ToLower(strings.TrimSpace(content)); s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return s, nil
	default:
		c.log.Warn("ai.sentiment.unexpected_label", "label", s)
		return SentimentNeutral, nil
	}
}

// Summarize produces a short summary of text, capped at maxChars.
func (c *Client) Summarize(ctx context.Context, text string, maxChars int) (string, error) {
	content, err := c.chat(ctx,
		fmt.Sprintf("Resume el texto en espanol en no mas de %d caracteres.", maxChars),
		clip(text, 3000))
	if err != nil {
		return "", err
	}
	return clip(strings.TrimSpace(content), maxChars), nil
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("ai client not configured")
	}

	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	bs, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	c.log.Info("ai.chat.request", "req_id", rid, "model", c.cfg.Model, "text_len", len(user))

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("ai.chat.send_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("ai.chat.body_close_error", "req_id", rid, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.log.Info("ai.chat.response", "req_id", rid, "status", resp.StatusCode,
		"bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("ai status %d: %s", resp.StatusCode, string(raw))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return cc.Choices[0].Message.Content, nil
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
