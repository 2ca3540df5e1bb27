package ocr

import (
	"errors"
	"testing"

	"github.com/gestordocs/docanalyzer/internal/common"
)

func TestDisabledEngineReportsUnavailable(t *testing.T) {
	var e Engine = Disabled{}

	if _, err := e.DetectText(t.Context(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("DetectText err = %v", err)
	}
	if _, err := e.AnalyzeDocument(t.Context(), nil); !errors.Is(err, common.ErrEngineUnavailable) {
		t.Fatalf("AnalyzeDocument err = %v, want engine-unavailable match", err)
	}
}
