package textract

import (
	"testing"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

func word(id, text string) entity.Block {
	return entity.Block{ID: id, BlockType: entity.BlockTypeWord, Text: text}
}

func keyValueSet(id string, entityType string, top float64, rels ...entity.Relationship) entity.Block {
	return entity.Block{
		ID:            id,
		BlockType:     entity.BlockTypeKeyValueSet,
		EntityTypes:   []string{entityType},
		Geometry:      entity.Geometry{BoundingBox: entity.BoundingBox{Top: top}},
		Relationships: rels,
	}
}

func children(ids ...string) entity.Relationship {
	return entity.Relationship{Type: entity.RelationshipChild, IDs: ids}
}

func valueRef(ids ...string) entity.Relationship {
	return entity.Relationship{Type: entity.RelationshipValue, IDs: ids}
}

func kvPairBlocks(id, keyText, valueText string, top float64) []entity.Block {
	return []entity.Block{
		keyValueSet("key-"+id, entity.EntityTypeKey, top,
			children("kw-"+id), valueRef("val-"+id)),
		word("kw-"+id, keyText),
		keyValueSet("val-"+id, entity.EntityTypeValue, top, children("vw-"+id)),
		word("vw-"+id, valueText),
	}
}

func TestAssembleText(t *testing.T) {
	resp := &entity.AnalysisResponse{Blocks: []entity.Block{
		{ID: "line", BlockType: entity.BlockTypeLine,
			Relationships: []entity.Relationship{children("w1", "w2", "sel", "gone")}},
		word("w1", "Hello"),
		word("w2", "World"),
		{ID: "sel", BlockType: entity.BlockTypeSelectionElement,
			SelectionStatus: entity.SelectionSelected},
	}}
	ix := NewIndex(resp)

	got := ix.AssembleText(resp.Blocks[0])
	if got != "Hello World X" {
		t.Fatalf("AssembleText = %q", got)
	}
}

func TestAssembleTextNoChildren(t *testing.T) {
	resp := &entity.AnalysisResponse{Blocks: []entity.Block{
		{ID: "lonely", BlockType: entity.BlockTypeLine},
	}}
	ix := NewIndex(resp)

	if got := ix.AssembleText(resp.Blocks[0]); got != "" {
		t.Fatalf("AssembleText = %q, want empty", got)
	}
}

func TestExtractKeyValuePairsSortedByPosition(t *testing.T) {
	// Pairs arrive out of vertical order; output must be sorted by the KEY
	// block's top coordinate regardless of input order.
	var blocks []entity.Block
	blocks = append(blocks, kvPairBlocks("b", "Total", "$10", 0.8)...)
	blocks = append(blocks, kvPairBlocks("a", "Nombre", "Alice", 0.1)...)
	blocks = append(blocks, kvPairBlocks("m", "Fecha", "01/02/2025", 0.5)...)

	pairs := ExtractKeyValuePairs(&entity.AnalysisResponse{Blocks: blocks})
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}
	wantOrder := []string{"nombre", "fecha", "total"}
	for i, want := range wantOrder {
		if pairs[i].Key != want {
			t.Fatalf("pairs[%d].Key = %q, want %q", i, pairs[i].Key, want)
		}
	}
	if pairs[0].OriginalKey != "Nombre" || pairs[0].Value != "Alice" {
		t.Fatalf("first pair = %+v", pairs[0])
	}
}

func TestExtractKeyValuePairsSkipsIncomplete(t *testing.T) {
	var blocks []entity.Block
	// Key with no resolvable value.
	blocks = append(blocks,
		keyValueSet("k1", entity.EntityTypeKey, 0.1, children("kw1"), valueRef("missing")),
		word("kw1", "Nombre"))
	// Key whose value assembles to empty text.
	blocks = append(blocks,
		keyValueSet("k2", entity.EntityTypeKey, 0.2, children("kw2"), valueRef("v2")),
		word("kw2", "Fecha"),
		keyValueSet("v2", entity.EntityTypeValue, 0.2))
	// Complete pair.
	blocks = append(blocks, kvPairBlocks("ok", "Total", "$5", 0.3)...)

	pairs := ExtractKeyValuePairs(&entity.AnalysisResponse{Blocks: blocks})
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].Key != "total" {
		t.Fatalf("pair = %+v", pairs[0])
	}
}

func TestExtractTables(t *testing.T) {
	cell := func(id string, row, col int, wordID string) entity.Block {
		return entity.Block{
			ID: id, BlockType: entity.BlockTypeCell,
			RowIndex: row, ColumnIndex: col,
			Relationships: []entity.Relationship{children(wordID)},
		}
	}
	resp := &entity.AnalysisResponse{Blocks: []entity.Block{
		{ID: "t1", BlockType: entity.BlockTypeTable,
			Relationships: []entity.Relationship{children("c11", "c12", "c21", "c22")}},
		cell("c11", 1, 1, "w11"), word("w11", "Cantidad"),
		cell("c12", 1, 2, "w12"), word("w12", "Producto"),
		cell("c21", 2, 1, "w21"), word("w21", "2"),
		cell("c22", 2, 2, "w22"), word("w22", "Widget"),
		// Empty table: no cells, must be omitted.
		{ID: "t2", BlockType: entity.BlockTypeTable},
	}}

	tables := ExtractTables(resp)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	tbl := tables[0]
	if got := tbl.Rows[1][1]; got != "Cantidad" {
		t.Fatalf("cell (1,1) = %q", got)
	}
	if got := tbl.Rows[2][2]; got != "Widget" {
		t.Fatalf("cell (2,2) = %q", got)
	}
	if rows := tbl.RowNumbers(); len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Fatalf("row numbers = %v", rows)
	}
}

func TestJoinLinesAndCountLines(t *testing.T) {
	resp := &entity.AnalysisResponse{Blocks: []entity.Block{
		{ID: "l1", BlockType: entity.BlockTypeLine, Text: "Hola"},
		word("w", "ignored"),
		{ID: "l2", BlockType: entity.BlockTypeLine, Text: "Mundo"},
	}}

	if got := JoinLines(resp); got != "Hola Mundo" {
		t.Fatalf("JoinLines = %q", got)
	}
	if got := CountLines(resp); got != 2 {
		t.Fatalf("CountLines = %d", got)
	}
	if JoinLines(nil) != "" || CountLines(nil) != 0 {
		t.Fatal("nil response should read as empty")
	}
}
