package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/internal/domain/repository"
	"travelscan-service/pkg/logger"
	"travelscan-service/pkg/metrics"
)

// DocumentProcessor drives pending scan documents through the vision service
type DocumentProcessor struct {
	documentRepo repository.DocumentRepository
	visionRepo   repository.VisionRepository
	cache        repository.ExtractionCache
	countryRepo  repository.CountryRepository
	airlineRepo  repository.AirlineRepository
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewDocumentProcessor creates a new document processor
func NewDocumentProcessor(
	documentRepo repository.DocumentRepository,
	visionRepo repository.VisionRepository,
	cache repository.ExtractionCache,
	countryRepo repository.CountryRepository,
	airlineRepo repository.AirlineRepository,
	m *metrics.Metrics,
	logger logger.Logger,
) *DocumentProcessor {
	return &DocumentProcessor{
		documentRepo: documentRepo,
		visionRepo:   visionRepo,
		cache:        cache,
		countryRepo:  countryRepo,
		airlineRepo:  airlineRepo,
		metrics:      m,
		logger:       logger,
	}
}

// ProcessDocument runs the vision extraction for a single document and
// records the outcome. A failure is recorded on the document itself and
// returned; it never affects sibling documents.
func (p *DocumentProcessor) ProcessDocument(ctx context.Context, doc *entity.ScanDocument) error {
	p.logger.Info("Starting document processing",
		"documentId", doc.DocumentID,
		"batchId", doc.BatchID,
		"filename", doc.Filename)

	started := time.Now()

	if err := p.documentRepo.UpdateStatusByDocumentID(ctx, doc.DocumentID, entity.StatusProcessing, started); err != nil {
		p.logger.Error("Failed to update status to PROCESSING", "documentId", doc.DocumentID, "error", err)
		return err
	}

	if len(doc.Image) == 0 {
		p.logger.Warn("Document carries no image data, skipping", "documentId", doc.DocumentID)
		return p.documentRepo.MarkAsProcessedByDocumentID(ctx, doc.DocumentID, entity.StatusSkipped, "no image data", nil, false)
	}

	record, fromCache, err := p.extract(ctx, doc)
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("vision_extract").Inc()
		p.logger.Error("Vision extraction failed",
			"documentId", doc.DocumentID,
			"filename", doc.Filename,
			"error", err)
		if markErr := p.documentRepo.MarkAsProcessedByDocumentID(ctx, doc.DocumentID, entity.StatusFailed, err.Error(), nil, false); markErr != nil {
			p.logger.Error("Failed to mark document as failed", "documentId", doc.DocumentID, "error", markErr)
		}
		return err
	}

	p.enrich(ctx, record)

	if err := p.documentRepo.MarkAsProcessedByDocumentID(ctx, doc.DocumentID, entity.StatusCompleted, "", record, fromCache); err != nil {
		p.logger.Error("Failed to mark document as processed", "documentId", doc.DocumentID, "error", err)
		return err
	}

	p.metrics.DocumentsProcessed.Inc()
	p.metrics.ProcessingTime.Observe(time.Since(started).Seconds())

	p.logger.Info("Document processing completed",
		"documentId", doc.DocumentID,
		"documentType", record.DocumentType,
		"fromCache", fromCache)

	return nil
}

// ProcessPendingDocuments processes unprocessed documents with safety checks.
// Documents run strictly one at a time; a failing document is recorded and
// the loop moves on.
func (p *DocumentProcessor) ProcessPendingDocuments(ctx context.Context) error {
	if err := p.documentRepo.ResetProcessingDocuments(ctx); err != nil {
		p.logger.Error("Failed to reset stale processing documents", "error", err)
	}

	docs, err := p.documentRepo.FindUnprocessed(ctx, 100)
	if err != nil {
		p.logger.Error("Failed to get unprocessed documents", "error", err)
		return err
	}

	if len(docs) == 0 {
		return nil
	}

	p.logger.Info("Found unprocessed documents", "count", len(docs))

	successCount := 0
	failCount := 0

	for _, doc := range docs {
		if err := p.ProcessDocument(ctx, doc); err != nil {
			failCount++
		} else {
			successCount++
		}
	}

	p.logger.Info("Document processing batch completed",
		"total", len(docs),
		"success", successCount,
		"failed", failCount)

	return nil
}

// extract returns the structured record for the document image, consulting
// the image-hash cache before calling the vision service.
func (p *DocumentProcessor) extract(ctx context.Context, doc *entity.ScanDocument) (*entity.ExtractedRecord, bool, error) {
	hash := imageHash(doc.Image)

	if p.cache != nil {
		cached, err := p.cache.Get(ctx, hash)
		if err != nil {
			p.logger.Debug("Extraction cache miss", "documentId", doc.DocumentID, "imageHash", hash)
		} else if cached != nil {
			p.metrics.ExtractionsCached.Inc()
			p.logger.Info("Extraction served from cache", "documentId", doc.DocumentID, "imageHash", hash)
			return cached, true, nil
		}
	}

	record, err := p.visionRepo.ExtractRecord(ctx, doc.Image, doc.ContentType, doc.Filename)
	if err != nil {
		return nil, false, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, hash, record); err != nil {
			p.logger.Warn("Failed to cache extraction", "imageHash", hash, "error", err)
		}
	}
	return record, false, nil
}

// enrich normalizes lookup-backed fields in place. Lookup failures only
// log: the extracted value always survives untouched.
func (p *DocumentProcessor) enrich(ctx context.Context, record *entity.ExtractedRecord) {
	nationality := entity.Trimmed(record.Nationality)
	if p.countryRepo != nil && (len(nationality) == 2 || len(nationality) == 3) {
		country, err := p.countryRepo.GetByCode(ctx, strings.ToUpper(nationality))
		if err != nil {
			p.logger.Debug("No country found for nationality code", "code", nationality)
		} else {
			record.Nationality = country.Name
		}
	}

	flight := strings.ToUpper(entity.Trimmed(record.FlightNumber))
	if flight != "" {
		record.FlightNumber = flight
	}
	if p.airlineRepo != nil && len(flight) >= 2 {
		if _, err := p.airlineRepo.GetByCode(ctx, flight[:2]); err != nil {
			p.logger.Warn("Unknown airline prefix on flight number", "flightNumber", flight)
		}
	}
}

func imageHash(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
