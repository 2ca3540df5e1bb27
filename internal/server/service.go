// Package server exposes the document pipeline over HTTP: upload and
// process, history queries, XLSX export, health.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gestordocs/docanalyzer/constants"
	"github.com/gestordocs/docanalyzer/internal/common"
	"github.com/gestordocs/docanalyzer/internal/entity"
	"github.com/gestordocs/docanalyzer/internal/invoice"
	"github.com/gestordocs/docanalyzer/internal/pipeline"
	"github.com/gestordocs/docanalyzer/internal/repository"
	"github.com/gestordocs/docanalyzer/internal/storage"
)

// Service runs the upload workflow: store bytes, persist the document,
// process it through the pipeline, and record events along the way.
type Service struct {
	repo  repository.DocumentRepository
	store *storage.Store
	proc  *pipeline.Processor
	log   *slog.Logger
}

func NewService(repo repository.DocumentRepository, store *storage.Store, proc *pipeline.Processor, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, store: store, proc: proc, log: log}
}

// ProcessUpload ingests one uploaded file end to end. The document always
// reaches DONE: pipeline degradation is recorded on the row, not returned.
func (s *Service) ProcessUpload(ctx context.Context, filename, contentType string, r io.Reader) (*entity.Document, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return nil, common.NewAppError("UNSUPPORTED_TYPE",
			fmt.Sprintf("extension %q is not allowed", ext), common.ErrInvalidInput)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, common.WrapError(err, "read upload")
	}

	path, err := s.store.Save(filename, bytes.NewReader(payload))
	if err != nil {
		return nil, common.WrapError(err, "store upload")
	}

	doc := &entity.Document{
		OriginalFilename: filename,
		ContentType:      contentType,
		StoragePath:      path,
		Status:           string(constants.DocStatusReceived),
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.addEvent(ctx, doc.ID, constants.EventDocumentUpload, "stored "+filename)

	ctx = common.WithDocumentID(ctx, doc.ID.String())
	out := s.proc.Process(ctx, payload)

	doc.Classification = out.Result.Classification
	doc.Confidence = &out.Result.Confidence
	doc.ProcessingTimeMS = &out.Result.ProcessingTimeMS
	if out.Result.Error != "" {
		msg := out.Result.Error
		doc.ErrorMessage = &msg
	}
	switch {
	case out.Invoice != nil:
		doc.Status = string(constants.DocStatusExtractedInvoice)
		payload, verr := invoice.MarshalRecord(*out.Invoice)
		if verr != nil {
			s.log.Warn("server.extract.schema_mismatch", "document_id", doc.ID, "error", verr)
			payload = json.RawMessage(`{}`)
			if doc.ErrorMessage == nil {
				msg := verr.Error()
				doc.ErrorMessage = &msg
			}
		}
		doc.ExtractedJSON = payload
	case out.Information != nil:
		doc.Status = string(constants.DocStatusExtractedInfo)
		doc.ExtractedJSON = mustMarshal(out.Information)
	default:
		doc.Status = string(constants.DocStatusClassified)
	}
	if err := s.repo.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.addEvent(ctx, doc.ID, constants.EventAIProcessing,
		fmt.Sprintf("classified as %s (%.0f%%)", doc.Classification, out.Result.Confidence))

	doc.Status = string(constants.DocStatusDone)
	if err := s.repo.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.log.Info("server.upload.done",
		"request_id", common.RequestIDFromContext(ctx),
		"document_id", doc.ID,
		"classification", doc.Classification,
		"status", doc.Status,
	)
	return doc, nil
}

// DocumentWithEvents loads a document plus its processing history.
func (s *Service) DocumentWithEvents(ctx context.Context, id uuid.UUID) (*entity.Document, []entity.Event, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	evs, err := s.repo.ListEvents(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return doc, evs, nil
}

func (s *Service) addEvent(ctx context.Context, docID uuid.UUID, eventType, desc string) {
	ev := &entity.Event{DocumentID: docID, EventType: eventType, Description: desc}
	if err := s.repo.AddEvent(ctx, ev); err != nil {
		s.log.Warn("server.event.write_failed", "document_id", docID, "error", err)
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}

// parseDate accepts YYYY-MM-DD query values.
func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}
