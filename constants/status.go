package constants

// DocStatus is the canonical status for rows in documents.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusReceived         DocStatus = "RECEIVED"          // stored, not yet classified
	DocStatusClassified       DocStatus = "CLASSIFIED"        // classification stage completed
	DocStatusExtractedInvoice DocStatus = "EXTRACTED_INVOICE" // invoice fields extracted
	DocStatusExtractedInfo    DocStatus = "EXTRACTED_INFO"    // informational fields extracted
	DocStatusDone             DocStatus = "DONE"              // terminal; reached even when stages degraded
)

// Event types recorded around document processing.
const (
	EventDocumentUpload = "DOCUMENT_UPLOAD"
	EventAIProcessing   = "AI_PROCESSING"
)
