// Package pipeline sequences classification and extraction for one
// document: RECEIVED -> CLASSIFIED -> EXTRACTED_INVOICE | EXTRACTED_INFO
// -> DONE. Each stage contains its own failures and substitutes an empty
// result; the caller's workflow always reaches DONE.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gestordocs/docanalyzer/constants"
	"github.com/gestordocs/docanalyzer/internal/ai"
	"github.com/gestordocs/docanalyzer/internal/classify"
	"github.com/gestordocs/docanalyzer/internal/common"
	"github.com/gestordocs/docanalyzer/internal/entity"
	"github.com/gestordocs/docanalyzer/internal/invoice"
	"github.com/gestordocs/docanalyzer/internal/ocr"
	"github.com/gestordocs/docanalyzer/internal/textract"
)

const maxDerivedChars = 500

// Outcome is the final product of one document run.
type Outcome struct {
	Result      entity.ClassificationResult
	Invoice     *entity.InvoiceData
	Information *entity.InformationData
}

// Processor coordinates the OCR engine, classifier, invoice parser and
// optional AI enrichment. It holds no per-document state; concurrent calls
// are safe.
type Processor struct {
	Engine     ocr.Engine
	Classifier *classify.Classifier
	Parser     *invoice.Parser
	AI         *ai.Client
	Log        *slog.Logger
}

func NewProcessor(engine ocr.Engine, aiClient *ai.Client, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		Engine:     engine,
		Classifier: classify.New(log),
		Parser:     invoice.NewParser(log),
		AI:         aiClient,
		Log:        log,
	}
}

// Process runs the full pipeline on one document's bytes.
func (p *Processor) Process(ctx context.Context, document []byte) Outcome {
	start := time.Now()

	out := Outcome{Result: p.ClassifyDocument(ctx, document)}

	if out.Result.Classification == string(constants.ClassificationFactura) {
		inv := p.ExtractInvoice(ctx, document, out.Result.RawText)
		out.Invoice = &inv
	} else {
		info := p.ExtractInformation(ctx, out.Result.RawText)
		out.Information = &info
	}

	out.Result.ProcessingTimeMS = time.Since(start).Milliseconds()
	p.Log.Info("processor.done",
		"document_id", common.DocumentIDFromContext(ctx),
		"classification", out.Result.Classification,
		"confidence", out.Result.Confidence,
		"elapsed_ms", out.Result.ProcessingTimeMS,
	)
	return out
}

// ClassifyDocument runs the cheap text-only pass and labels the document.
// Engine unavailability degrades to INFORMACIÓN with confidence 0 and the
// condition recorded in Error; it is never returned as a failure.
func (p *Processor) ClassifyDocument(ctx context.Context, document []byte) entity.ClassificationResult {
	resp, err := p.Engine.DetectText(ctx, document)
	if err != nil {
		p.Log.Error("processor.classify.engine_unavailable", "err", err)
		return entity.ClassificationResult{
			Classification: string(constants.ClassificationInformacion),
			Confidence:     0,
			Error:          err.Error(),
		}
	}

	rawText := textract.JoinLines(resp)
	res := p.Classifier.Classify(rawText)

	return entity.ClassificationResult{
		Classification: string(res.Classification),
		Confidence:     classify.Confidence(textract.CountLines(resp)),
		RawText:        rawText,
	}
}

// ExtractInvoice re-runs OCR with forms+tables and parses the structured
// record. Any engine failure yields an empty record, never an error.
func (p *Processor) ExtractInvoice(ctx context.Context, document []byte, rawText string) entity.InvoiceData {
	resp, err := p.Engine.AnalyzeDocument(ctx, document)
	if err != nil {
		p.Log.Error("processor.extract.engine_unavailable", "err", err)
		return entity.InvoiceData{}
	}
	return p.Parser.Parse(resp, rawText)
}

// ExtractInformation derives descripcion and resumen from raw text, then
// enriches sentimiento and resumen via the AI client when configured.
// Enrichment failures keep the derived values.
func (p *Processor) ExtractInformation(ctx context.Context, rawText string) entity.InformationData {
	var info entity.InformationData
	if rawText == "" {
		return info
	}

	paragraphs := splitParagraphs(rawText)
	if len(paragraphs) > 0 {
		info.Descripcion = clip(paragraphs[0], maxDerivedChars)
	}
	if len(paragraphs) >= 3 {
		info.Resumen = clip(strings.Join(paragraphs[:3], " "), maxDerivedChars)
	} else if len(paragraphs) > 0 {
		info.Resumen = clip(rawText, maxDerivedChars)
	}
	info.Sentimiento = ai.SentimentNeutral

	if p.AI.Enabled() {
		if s, err := p.AI.AnalyzeSentiment(ctx, rawText); err != nil {
			p.Log.Warn("processor.info.sentiment_failed", "err", err)
		} else {
			info.Sentimiento = s
		}
		if summary, err := p.AI.Summarize(ctx, rawText, maxDerivedChars); err != nil {
			p.Log.Warn("processor.info.summarize_failed", "err", err)
		} else if summary != "" {
			info.Resumen = summary
		}
	}
	return info
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
