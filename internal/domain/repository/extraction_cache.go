package repository

import (
	"context"

	"travelscan-service/internal/domain/entity"
)

// ExtractionCache caches vision results keyed by image content hash so a
// re-uploaded scan never pays for a second vision call
type ExtractionCache interface {
	Get(ctx context.Context, imageHash string) (*entity.ExtractedRecord, error)
	Set(ctx context.Context, imageHash string, record *entity.ExtractedRecord) error
}
