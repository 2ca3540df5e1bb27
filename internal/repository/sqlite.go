package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gestordocs/docanalyzer/internal/common"
	"github.com/gestordocs/docanalyzer/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	storage_path TEXT NOT NULL DEFAULT '',
	classification TEXT NOT NULL DEFAULT '',
	confidence REAL,
	processing_time_ms INTEGER,
	status TEXT NOT NULL,
	error_message TEXT,
	extracted_json TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_classification ON documents (classification);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);

CREATE TABLE IF NOT EXISTS document_events (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
	event_type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_document_events_document_id ON document_events (document_id);
`

// SQLite implements DocumentRepository on a local file database. Used for
// single-node runs and the offline CLI; the SQL mirrors the Postgres
// implementation with TEXT ids.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
}

func OpenSQLite(path string, log *slog.Logger) (*SQLite, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open sqlite")
	}
	// modernc sqlite serializes writes; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return &SQLite{db: db, log: log}, nil
}

func (r *SQLite) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return common.WrapError(err, "ensure schema")
	}
	return nil
}

func (r *SQLite) CreateDocument(ctx context.Context, doc *entity.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, original_filename, content_type, storage_path,
			classification, confidence, processing_time_ms, status, error_message,
			extracted_json, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		doc.ID.String(), doc.OriginalFilename, doc.ContentType, doc.StoragePath,
		doc.Classification, doc.Confidence, doc.ProcessingTimeMS, doc.Status,
		doc.ErrorMessage, nullableJSON(doc.ExtractedJSON), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return common.WrapError(err, "create document")
	}
	return nil
}

func (r *SQLite) UpdateDocument(ctx context.Context, doc *entity.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents SET classification=?, confidence=?, processing_time_ms=?,
			status=?, error_message=?, extracted_json=?, updated_at=?
		WHERE id=?`,
		doc.Classification, doc.Confidence, doc.ProcessingTimeMS, doc.Status,
		doc.ErrorMessage, nullableJSON(doc.ExtractedJSON), doc.UpdatedAt, doc.ID.String())
	if err != nil {
		return common.WrapError(err, "update document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("document %s not found", doc.ID), common.ErrNotFound)
	}
	return nil
}

func (r *SQLite) GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, original_filename, content_type, storage_path, classification,
			confidence, processing_time_ms, status, error_message, extracted_json,
			created_at, updated_at
		FROM documents WHERE id=?`, id.String())

	doc, err := scanDocumentRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("document %s not found", id), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get document")
	}
	return doc, nil
}

func (r *SQLite) ListDocuments(ctx context.Context, f ListFilter) ([]entity.Document, error) {
	var (
		conds []string
		args  []any
	)
	if f.Classification != "" {
		conds = append(conds, "classification = ?")
		args = append(args, f.Classification)
	}
	if !f.DateFrom.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.DateTo)
	}

	q := `SELECT id, original_filename, content_type, storage_path, classification,
		confidence, processing_time_ms, status, error_message, extracted_json,
		created_at, updated_at FROM documents`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}
	if f.Offset > 0 {
		q += " OFFSET ?"
		args = append(args, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.WrapError(err, "list documents")
	}
	defer rows.Close()

	var docs []entity.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows.Scan)
		if err != nil {
			return nil, common.WrapError(err, "scan document")
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "list documents")
	}
	return docs, nil
}

func (r *SQLite) AddEvent(ctx context.Context, ev *entity.Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	ev.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO document_events (id, document_id, event_type, description, created_at)
		VALUES (?,?,?,?,?)`,
		ev.ID.String(), ev.DocumentID.String(), ev.EventType, ev.Description, ev.CreatedAt)
	if err != nil {
		return common.WrapError(err, "add event")
	}
	return nil
}

func (r *SQLite) ListEvents(ctx context.Context, documentID uuid.UUID) ([]entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, document_id, event_type, description, created_at
		FROM document_events WHERE document_id=? ORDER BY created_at ASC`, documentID.String())
	if err != nil {
		return nil, common.WrapError(err, "list events")
	}
	defer rows.Close()

	var evs []entity.Event
	for rows.Next() {
		var (
			ev        entity.Event
			id, docID string
		)
		if err := rows.Scan(&id, &docID, &ev.EventType, &ev.Description, &ev.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan event")
		}
		if ev.ID, err = uuid.Parse(id); err != nil {
			return nil, common.WrapError(err, "parse event id")
		}
		if ev.DocumentID, err = uuid.Parse(docID); err != nil {
			return nil, common.WrapError(err, "parse document id")
		}
		evs = append(evs, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "list events")
	}
	return evs, nil
}

func (r *SQLite) Close() {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close sqlite", "error", err)
	}
}

// scanDocumentRow adapts string ids and nullable JSON back into the entity.
func scanDocumentRow(scan func(dest ...any) error) (*entity.Document, error) {
	var (
		doc       entity.Document
		id        string
		extracted sql.NullString
	)
	if err := scan(&id, &doc.OriginalFilename, &doc.ContentType, &doc.StoragePath,
		&doc.Classification, &doc.Confidence, &doc.ProcessingTimeMS, &doc.Status,
		&doc.ErrorMessage, &extracted, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	doc.ID = parsed
	if extracted.Valid {
		doc.ExtractedJSON = []byte(extracted.String)
	}
	return &doc, nil
}

// nullableJSON stores empty payloads as NULL rather than empty strings.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
