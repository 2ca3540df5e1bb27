// Package repository persists documents and their processing events.
// Postgres (pgx) backs production; SQLite backs local runs and tooling.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gestordocs/docanalyzer/internal/entity"
)

// ListFilter narrows history queries. Zero values mean "no constraint".
type ListFilter struct {
	Classification string
	DateFrom       time.Time
	DateTo         time.Time
	Limit          int
	Offset         int
}

// DocumentRepository is the persistence interface the server depends on.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *entity.Document) error
	UpdateDocument(ctx context.Context, doc *entity.Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListDocuments(ctx context.Context, f ListFilter) ([]entity.Document, error)

	AddEvent(ctx context.Context, ev *entity.Event) error
	ListEvents(ctx context.Context, documentID uuid.UUID) ([]entity.Event, error)

	Close()
}
