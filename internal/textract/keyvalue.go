package textract

import (
	"sort"
	"strings"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

// KeyValuePair is one recovered form field. Duplicate keys are legal and
// preserved as separate entries: downstream disambiguation of repeated
// labels (two "Nombre:" fields) depends on encounter order, not a map.
type KeyValuePair struct {
	Key         string  // lowercased key text
	OriginalKey string  // key text as read
	Value       string  // value text as read
	YPosition   float64 // KEY block's bounding-box top
}

// ExtractKeyValuePairs recovers (key, value) pairs from the KEY_VALUE_SET
// blocks of one response. A pair is emitted only when both key and value
// resolve to non-empty text. The result is sorted ascending by YPosition —
// the document reading-order approximation every downstream positional
// heuristic relies on. The sort is stable so equal positions keep their
// scan order. Zero pairs is a valid result.
func ExtractKeyValuePairs(resp *entity.AnalysisResponse) []KeyValuePair {
	if resp == nil {
		return nil
	}
	ix := NewIndex(resp)

	var pairs []KeyValuePair
	for _, b := range resp.Blocks {
		if b.BlockType != entity.BlockTypeKeyValueSet || !b.HasEntityType(entity.EntityTypeKey) {
			continue
		}
		keyText := ix.AssembleText(b)
		valueText := ix.valueTextForKey(b)
		if keyText == "" || valueText == "" {
			continue
		}
		pairs = append(pairs, KeyValuePair{
			Key:         strings.ToLower(keyText),
			OriginalKey: keyText,
			Value:       valueText,
			YPosition:   b.Geometry.BoundingBox.Top,
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].YPosition < pairs[j].YPosition
	})
	return pairs
}

// valueTextForKey follows the KEY block's VALUE-typed relationship to its
// paired block. The target must itself carry the VALUE entity type;
// anything else (dangling id, wrong type) reads as empty.
func (ix *Index) valueTextForKey(key entity.Block) string {
	for _, rel := range key.Relationships {
		if rel.Type != entity.RelationshipValue {
			continue
		}
		for _, id := range rel.IDs {
			v, ok := ix.Block(id)
			if !ok || !v.HasEntityType(entity.EntityTypeValue) {
				continue
			}
			if text := ix.AssembleText(v); text != "" {
				return text
			}
		}
	}
	return ""
}
