// Package textract turns the flat block list of one OCR response into
// structured primitives: assembled text, ordered key-value pairs, and
// table grids. It never mutates blocks and never fails on a malformed
// graph — dangling ids and missing relationships read as empty results.
package textract

import (
	"github.com/gestordocs/docanalyzer/internal/entity"
)

// Index is the per-response lookup structure: id -> block and
// id -> CHILD-target ids, built once so downstream traversal is O(1)
// per edge instead of a scan over the whole block list.
type Index struct {
	blocks   map[string]entity.Block
	children map[string][]string
}

// NewIndex builds the lookup maps for one OCR response.
func NewIndex(resp *entity.AnalysisResponse) *Index {
	ix := &Index{
		blocks:   make(map[string]entity.Block),
		children: make(map[string][]string),
	}
	if resp == nil {
		return ix
	}
	for _, b := range resp.Blocks {
		if b.ID == "" {
			continue
		}
		ix.blocks[b.ID] = b
		for _, rel := range b.Relationships {
			if rel.Type == entity.RelationshipChild {
				ix.children[b.ID] = append(ix.children[b.ID], rel.IDs...)
			}
		}
	}
	return ix
}

// Block returns the block with the given id.
func (ix *Index) Block(id string) (entity.Block, bool) {
	b, ok := ix.blocks[id]
	return b, ok
}

// ChildIDs returns the CHILD-relationship target ids of the given block,
// in relationship order. Nil when the block has no CHILD edges.
func (ix *Index) ChildIDs(id string) []string {
	return ix.children[id]
}
