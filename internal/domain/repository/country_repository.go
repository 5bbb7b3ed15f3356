package repository

import (
	"context"

	"travelscan-service/internal/domain/entity"
)

// CountryRepository defines the interface for nationality lookups
type CountryRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Country, error)
}
