package textract

import (
	"strings"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

// AssembleText resolves a block into plain text by walking its CHILD ids:
// WORD children contribute their text, SELECTION_ELEMENT children contribute
// the literal marker "X" when selected. A block with no CHILD relationship
// resolves to "".
func (ix *Index) AssembleText(b entity.Block) string {
	var parts []string
	for _, childID := range ix.ChildIDs(b.ID) {
		child, ok := ix.Block(childID)
		if !ok {
			continue
		}
		switch child.BlockType {
		case entity.BlockTypeWord:
			parts = append(parts, child.Text)
		case entity.BlockTypeSelectionElement:
			if child.SelectionStatus == entity.SelectionSelected {
				parts = append(parts, "X")
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// JoinLines concatenates the text of every LINE block with single spaces.
// This is the raw document text the classifier and the regex fallback
// parser operate on.
func JoinLines(resp *entity.AnalysisResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, b := range resp.Blocks {
		if b.BlockType == entity.BlockTypeLine {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, " ")
}

// CountLines returns the number of LINE blocks in the response; the
// classification confidence proxy is derived from it.
func CountLines(resp *entity.AnalysisResponse) int {
	if resp == nil {
		return 0
	}
	n := 0
	for _, b := range resp.Blocks {
		if b.BlockType == entity.BlockTypeLine {
			n++
		}
	}
	return n
}
