package repository

import (
	"context"

	"travelscan-service/internal/domain/entity"
)

// AirlineRepository defines the interface for airline lookups
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}
