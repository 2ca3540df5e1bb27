package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

// Static is an Engine that replays a saved block-graph JSON file. Both
// passes return the same response; useful for offline runs and tooling.
type Static struct {
	resp *entity.AnalysisResponse
}

// NewStaticFromFile loads a block-graph JSON document from path.
func NewStaticFromFile(path string) (*Static, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block graph: %w", err)
	}
	var resp entity.AnalysisResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("decode block graph: %w", err)
	}
	return &Static{resp: &resp}, nil
}

// NewStatic wraps an already-decoded response.
func NewStatic(resp *entity.AnalysisResponse) *Static {
	return &Static{resp: resp}
}

func (s *Static) DetectText(context.Context, []byte) (*entity.AnalysisResponse, error) {
	return s.resp, nil
}

func (s *Static) AnalyzeDocument(context.Context, []byte) (*entity.AnalysisResponse, error) {
	return s.resp, nil
}
