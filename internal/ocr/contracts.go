// Package ocr talks to the external layout-analysis engine. The pipeline
// depends only on the Engine interface; HTTP, static-file, and disabled
// implementations live here.
package ocr

import (
	"context"
	"fmt"

	"github.com/gestordocs/docanalyzer/internal/common"
	"github.com/gestordocs/docanalyzer/internal/entity"
)

// ErrNotConfigured signals that no engine credentials or endpoint are
// present. Callers degrade to a safe default instead of failing the
// document. It matches common.ErrEngineUnavailable under errors.Is.
var ErrNotConfigured = fmt.Errorf("ocr engine not configured: %w", common.ErrEngineUnavailable)

// Engine is the interface the pipeline depends on. DetectText is the cheap
// pass returning LINE/WORD blocks only; AnalyzeDocument additionally
// returns KEY_VALUE_SET, TABLE, CELL and SELECTION_ELEMENT blocks.
type Engine interface {
	DetectText(ctx context.Context, document []byte) (*entity.AnalysisResponse, error)
	AnalyzeDocument(ctx context.Context, document []byte) (*entity.AnalysisResponse, error)
}

// Disabled is the Engine used when OCR is switched off. Every call reports
// ErrNotConfigured.
type Disabled struct{}

func (Disabled) DetectText(context.Context, []byte) (*entity.AnalysisResponse, error) {
	return nil, ErrNotConfigured
}

func (Disabled) AnalyzeDocument(context.Context, []byte) (*entity.AnalysisResponse, error) {
	return nil, ErrNotConfigured
}
