package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded document for data transfer between layers.
type Document struct {
	ID               uuid.UUID       `json:"id"`
	OriginalFilename string          `json:"original_filename"`
	ContentType      string          `json:"content_type"`
	StoragePath      string          `json:"storage_path"`
	Classification   string          `json:"classification,omitempty"`
	Confidence       *float64        `json:"confidence,omitempty"`
	ProcessingTimeMS *int64          `json:"processing_time_ms,omitempty"`
	Status           string          `json:"status"`
	ErrorMessage     *string         `json:"error_message,omitempty"`
	ExtractedJSON    json.RawMessage `json:"extracted_json,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Event records one processing milestone for a document.
type Event struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  uuid.UUID `json:"document_id"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
