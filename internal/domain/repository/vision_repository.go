package repository

import (
	"context"

	"travelscan-service/internal/domain/entity"
)

// VisionRepository defines the interface for the external vision/OCR service
type VisionRepository interface {
	// ExtractRecord sends one document image to the vision service and
	// returns the structured fields it read. The filename is passed as a
	// hint for document-type detection.
	ExtractRecord(ctx context.Context, image []byte, contentType, filename string) (*entity.ExtractedRecord, error)
}
