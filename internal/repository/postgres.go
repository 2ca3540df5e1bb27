package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestordocs/docanalyzer/internal/common"
	"github.com/gestordocs/docanalyzer/internal/entity"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id UUID PRIMARY KEY,
	original_filename TEXT NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	storage_path TEXT NOT NULL DEFAULT '',
	classification TEXT NOT NULL DEFAULT '',
	confidence DOUBLE PRECISION,
	processing_time_ms BIGINT,
	status TEXT NOT NULL,
	error_message TEXT,
	extracted_json JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_documents_classification ON documents (classification);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);

CREATE TABLE IF NOT EXISTS document_events (
	id UUID PRIMARY KEY,
	document_id UUID NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
	event_type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_document_events_document_id ON document_events (document_id);
`

// Postgres implements DocumentRepository on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *slog.Logger) *Postgres {
	if log == nil {
		log = slog.Default()
	}
	return &Postgres{pool: pool, log: log}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, pgSchema); err != nil {
		return common.WrapError(err, "ensure schema")
	}
	return nil
}

func (r *Postgres) CreateDocument(ctx context.Context, doc *entity.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (id, original_filename, content_type, storage_path,
			classification, confidence, processing_time_ms, status, error_message,
			extracted_json, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		doc.ID, doc.OriginalFilename, doc.ContentType, doc.StoragePath,
		doc.Classification, doc.Confidence, doc.ProcessingTimeMS, doc.Status,
		doc.ErrorMessage, doc.ExtractedJSON, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return common.WrapError(err, "create document")
	}
	return nil
}

func (r *Postgres) UpdateDocument(ctx context.Context, doc *entity.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents SET classification=$2, confidence=$3, processing_time_ms=$4,
			status=$5, error_message=$6, extracted_json=$7, updated_at=$8
		WHERE id=$1`,
		doc.ID, doc.Classification, doc.Confidence, doc.ProcessingTimeMS,
		doc.Status, doc.ErrorMessage, doc.ExtractedJSON, doc.UpdatedAt)
	if err != nil {
		return common.WrapError(err, "update document")
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("document %s not found", doc.ID), common.ErrNotFound)
	}
	return nil
}

func (r *Postgres) GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, original_filename, content_type, storage_path, classification,
			confidence, processing_time_ms, status, error_message, extracted_json,
			created_at, updated_at
		FROM documents WHERE id=$1`, id)

	var doc entity.Document
	err := row.Scan(&doc.ID, &doc.OriginalFilename, &doc.ContentType, &doc.StoragePath,
		&doc.Classification, &doc.Confidence, &doc.ProcessingTimeMS, &doc.Status,
		&doc.ErrorMessage, &doc.ExtractedJSON, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("document %s not found", id), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get document")
	}
	return &doc, nil
}

func (r *Postgres) ListDocuments(ctx context.Context, f ListFilter) ([]entity.Document, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Classification != "" {
		conds = append(conds, "classification = "+arg(f.Classification))
	}
	if !f.DateFrom.IsZero() {
		conds = append(conds, "created_at >= "+arg(f.DateFrom))
	}
	if !f.DateTo.IsZero() {
		conds = append(conds, "created_at <= "+arg(f.DateTo))
	}

	q := `SELECT id, original_filename, content_type, storage_path, classification,
		confidence, processing_time_ms, status, error_message, extracted_json,
		created_at, updated_at FROM documents`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		q += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		q += " OFFSET " + arg(f.Offset)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, common.WrapError(err, "list documents")
	}
	defer rows.Close()

	var docs []entity.Document
	for rows.Next() {
		var doc entity.Document
		if err := rows.Scan(&doc.ID, &doc.OriginalFilename, &doc.ContentType,
			&doc.StoragePath, &doc.Classification, &doc.Confidence,
			&doc.ProcessingTimeMS, &doc.Status, &doc.ErrorMessage,
			&doc.ExtractedJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, common.WrapError(err, "scan document")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "list documents")
	}
	return docs, nil
}

func (r *Postgres) AddEvent(ctx context.Context, ev *entity.Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	ev.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO document_events (id, document_id, event_type, description, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		ev.ID, ev.DocumentID, ev.EventType, ev.Description, ev.CreatedAt)
	if err != nil {
		return common.WrapError(err, "add event")
	}
	return nil
}

func (r *Postgres) ListEvents(ctx context.Context, documentID uuid.UUID) ([]entity.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, event_type, description, created_at
		FROM document_events WHERE document_id=$1 ORDER BY created_at ASC`, documentID)
	if err != nil {
		return nil, common.WrapError(err, "list events")
	}
	defer rows.Close()

	var evs []entity.Event
	for rows.Next() {
		var ev entity.Event
		if err := rows.Scan(&ev.ID, &ev.DocumentID, &ev.EventType, &ev.Description, &ev.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan event")
		}
		evs = append(evs, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "list events")
	}
	return evs, nil
}

func (r *Postgres) Close() {
	r.log.Info("closing database connections")
	r.pool.Close()
}
