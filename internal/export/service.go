// Package export produces XLSX workbooks of processed documents for the
// history surface.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gestordocs/docanalyzer/internal/repository"
)

// Service is a tiny façade over the repository that produces XLSX bytes.
type Service struct {
	repo   repository.DocumentRepository
	logger *slog.Logger
}

func NewService(repo repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportDocumentsXLSX returns an XLSX workbook of documents matching f.
func (s *Service) ExportDocumentsXLSX(ctx context.Context, f repository.ListFilter) ([]byte, error) {
	start := time.Now()

	docs, err := s.repo.ListDocuments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	wb := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := wb.GetSheetIndex(sheet); index == -1 {
		if _, err := wb.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := wb.GetSheetIndex(sheet)
	wb.SetActiveSheet(activeIndex)
	defaultIndex, _ := wb.GetSheetIndex("Sheet1")
	if defaultIndex != -1 {
		_ = wb.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Uploaded",
		"Filename",
		"Classification",
		"Confidence",
		"Status",
		"Processing Time (ms)",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = wb.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, d := range docs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = wb.SetCellValue(sheet, cell, v)
		}

		write(1, d.CreatedAt.Format("2006-01-02 15:04"))
		write(2, d.OriginalFilename)
		write(3, d.Classification)
		if d.Confidence != nil {
			write(4, *d.Confidence)
		}
		write(5, d.Status)
		if d.ProcessingTimeMS != nil {
			write(6, *d.ProcessingTimeMS)
		}
		if d.ErrorMessage != nil {
			write(7, truncate(*d.ErrorMessage, 140))
		}

		row++
	}

	_ = wb.SetColWidth(sheet, "A", "A", 18)
	_ = wb.SetColWidth(sheet, "B", "B", 36)
	_ = wb.SetColWidth(sheet, "C", "C", 16)
	_ = wb.SetColWidth(sheet, "E", "E", 20)
	_ = wb.SetColWidth(sheet, "G", "G", 40)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"documents", len(docs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
