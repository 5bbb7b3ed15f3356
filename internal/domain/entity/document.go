package entity

import (
	"time"
)

// Document process status
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusSkipped    = "SKIPPED"
)

// Document sources
const (
	SourceUpload  = "upload"
	SourceMailbox = "mailbox"
)

// ScanDocument is one uploaded or mailed-in travel document image awaiting
// or carrying a vision extraction
type ScanDocument struct {
	DocumentID       string           `bson:"documentId"`
	BatchID          string           `bson:"batchId"`
	Filename         string           `bson:"filename"`
	ContentType      string           `bson:"contentType"`
	Source           string           `bson:"source"`
	Image            []byte           `bson:"image"`
	ReceivedAt       time.Time        `bson:"receivedAt"`
	ProcessStatus    string           `bson:"processStatus"`
	ProcessStartedAt time.Time        `bson:"processStartedAt,omitempty"`
	ProcessedAt      time.Time        `bson:"processedAt,omitempty"`
	ErrorDetail      string           `bson:"errorDetail,omitempty"`
	Extraction       *ExtractedRecord `bson:"extraction,omitempty"`
	FromCache        bool             `bson:"fromCache,omitempty"`
}
