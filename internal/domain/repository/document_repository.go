package repository

import (
	"context"
	"time"

	"travelscan-service/internal/domain/entity"
)

// DocumentRepository defines the interface for scan document storage
type DocumentRepository interface {
	Save(ctx context.Context, doc *entity.ScanDocument) error
	FindByDocumentID(ctx context.Context, documentID string) (*entity.ScanDocument, error)
	FindByDocumentIDs(ctx context.Context, documentIDs []string) (map[string]*entity.ScanDocument, error)
	FindByBatch(ctx context.Context, batchID string) ([]*entity.ScanDocument, error)
	FindCompletedByBatch(ctx context.Context, batchID string) ([]*entity.ScanDocument, error)
	FindUnprocessed(ctx context.Context, limit int) ([]*entity.ScanDocument, error)
	GetLastDocument(ctx context.Context) (*entity.ScanDocument, error)
	UpdateStatusByDocumentID(ctx context.Context, documentID string, status string, startedAt time.Time) error
	MarkAsProcessedByDocumentID(ctx context.Context, documentID, status, errorDetail string, extraction *entity.ExtractedRecord, fromCache bool) error
	ResetProcessingDocuments(ctx context.Context) error
}
