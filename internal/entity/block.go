package entity

// BlockType identifies the kind of OCR primitive a Block represents.
type BlockType string

const (
	BlockTypeLine             BlockType = "LINE"
	BlockTypeWord             BlockType = "WORD"
	BlockTypeKeyValueSet      BlockType = "KEY_VALUE_SET"
	BlockTypeTable            BlockType = "TABLE"
	BlockTypeCell             BlockType = "CELL"
	BlockTypeSelectionElement BlockType = "SELECTION_ELEMENT"
)

// Entity types carried by KEY_VALUE_SET blocks.
const (
	EntityTypeKey   = "KEY"
	EntityTypeValue = "VALUE"
)

// RelationshipType identifies an edge category in the block graph.
type RelationshipType string

const (
	RelationshipChild RelationshipType = "CHILD"
	RelationshipValue RelationshipType = "VALUE"
)

// Selection status values for SELECTION_ELEMENT blocks.
const (
	SelectionSelected    = "SELECTED"
	SelectionNotSelected = "NOT_SELECTED"
)

// Relationship is an ordered edge list from one block to others.
type Relationship struct {
	Type RelationshipType `json:"Type"`
	IDs  []string         `json:"Ids"`
}

// BoundingBox is the block's position in normalized [0,1] page coordinates.
type BoundingBox struct {
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
	Left   float64 `json:"Left"`
	Top    float64 `json:"Top"`
}

// Geometry wraps the geometric attributes of a block.
type Geometry struct {
	BoundingBox BoundingBox `json:"BoundingBox"`
}

// Block is one OCR primitive from the layout-analysis engine. Blocks form a
// DAG: CHILD edges point parent to children, VALUE edges link a KEY block to
// its VALUE block. Blocks are immutable; the pipeline only indexes and reads.
// JSON field names follow the engine's wire format.
type Block struct {
	ID              string         `json:"Id"`
	BlockType       BlockType      `json:"BlockType"`
	EntityTypes     []string       `json:"EntityTypes,omitempty"`
	Text            string         `json:"Text,omitempty"`
	SelectionStatus string         `json:"SelectionStatus,omitempty"`
	RowIndex        int            `json:"RowIndex,omitempty"`
	ColumnIndex     int            `json:"ColumnIndex,omitempty"`
	Geometry        Geometry       `json:"Geometry,omitempty"`
	Relationships   []Relationship `json:"Relationships,omitempty"`
}

// HasEntityType reports whether the block carries the given entity type.
func (b Block) HasEntityType(t string) bool {
	for _, e := range b.EntityTypes {
		if e == t {
			return true
		}
	}
	return false
}

// AnalysisResponse is one OCR response: a flat list of blocks with id-based
// edges. Both the text-only and the forms+tables request modes return this
// same shape.
type AnalysisResponse struct {
	Blocks []Block `json:"Blocks"`
}
