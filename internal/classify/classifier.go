// Package classify labels document text as FACTURA or INFORMACIÓN with a
// tiered, weighted keyword score. The tiers, weights, and rule thresholds
// are policy, kept as data so they can be tuned and tested apart from the
// traversal code.
package classify

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/gestordocs/docanalyzer/constants"
)

// Keyword tiers. A single incidental commerce word ("service", "date",
// "payment") must not flip an informational document, so the tiers weight
// density rather than mere presence.
var (
	criticalKeywords = []string{
		"factura", "invoice", "recibo", "receipt", "bill",
		"número de factura", "numero de factura", "invoice number", "invoice no",
		"factura no", "factura numero",
	}

	importantKeywords = []string{
		"cliente", "client", "customer",
		"proveedor", "provider", "vendor", "supplier",
		"total", "subtotal", "iva", "tax", "impuesto",
		"cantidad", "quantity", "qty",
		"precio unitario", "unit price", "precio", "unitario",
		"producto", "product", "item",
		"rfc", "tax id", "cuit",
	}

	secondaryKeywords = []string{
		"comprador", "buyer", "vendedor", "seller",
		"taxes", "qty.", "cant.", "articulo", "article",
		"servicio", "service",
		"fecha de factura", "invoice date", "date", "fecha",
		"pago", "payment", "metodo de pago", "payment method",
		"detalle", "detail", "concepto", "concept",
	}
)

// Per-tier weights.
const (
	weightCritical  = 3
	weightImportant = 2
	weightSecondary = 1
)

// rule is one FACTURA condition: minimum distinct critical matches,
// minimum distinct important matches, minimum weighted score. Rules are
// evaluated in order; the first match wins.
type rule struct {
	minCritical  int
	minImportant int
	minScore     int
}

var facturaRules = []rule{
	{minCritical: 1, minImportant: 2, minScore: 12},
	{minCritical: 2, minImportant: 0, minScore: 10},
	{minCritical: 0, minImportant: 4, minScore: 14},
	{minCritical: 0, minImportant: 0, minScore: 16},
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Result carries the label and the score breakdown that produced it.
type Result struct {
	Classification constants.Classification
	Critical       int
	Important      int
	Secondary      int
	Score          int
}

// Classifier scores normalized document text against the keyword tiers.
type Classifier struct {
	Log *slog.Logger
}

func New(log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{Log: log}
}

// Classify labels raw assembled text. Empty or whitespace-only text is
// INFORMACIÓN immediately, with no engine dependency.
func (c *Classifier) Classify(text string) Result {
	if strings.TrimSpace(text) == "" {
		c.Log.Warn("classify.empty_text")
		return Result{Classification: constants.ClassificationInformacion}
	}

	normalized := Normalize(text)
	res := Result{
		Critical:  countMatches(normalized, criticalKeywords),
		Important: countMatches(normalized, importantKeywords),
		Secondary: countMatches(normalized, secondaryKeywords),
	}
	res.Score = res.Critical*weightCritical + res.Important*weightImportant + res.Secondary*weightSecondary

	res.Classification = constants.ClassificationInformacion
	for i, r := range facturaRules {
		if res.Critical >= r.minCritical && res.Important >= r.minImportant && res.Score >= r.minScore {
			res.Classification = constants.ClassificationFactura
			c.Log.Info("classify.factura", "rule", i+1,
				"critical", res.Critical, "important", res.Important,
				"secondary", res.Secondary, "score", res.Score)
			return res
		}
	}
	c.Log.Info("classify.informacion",
		"critical", res.Critical, "important", res.Important,
		"secondary", res.Secondary, "score", res.Score)
	return res
}

// Normalize lowercases the text and collapses whitespace runs to single
// spaces so multi-word keywords match across line breaks.
func Normalize(text string) string {
	return whitespaceRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// countMatches counts distinct keywords present as substrings.
func countMatches(normalized string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			n++
		}
	}
	return n
}

// Confidence is a crude proxy for "enough text was recovered to trust the
// result": min(100, lineCount/10*100). It is not a statistical measure of
// classification certainty.
func Confidence(lineCount int) float64 {
	conf := float64(lineCount) / 10.0 * 100.0
	if conf > 100.0 {
		return 100.0
	}
	return conf
}
