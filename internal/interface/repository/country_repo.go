package repository

import (
	"context"
	"time"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormCountryRepository implements the CountryRepository interface
type GormCountryRepository struct {
	db *gorm.DB
}

// NewGormCountryRepository creates a new GORM country repository
func NewGormCountryRepository(db *gorm.DB) repository.CountryRepository {
	return &GormCountryRepository{
		db: db,
	}
}

// Countries GORM model for database mapping
type Countries struct {
	gorm.Model
	ID        uint           `gorm:"primaryKey"`
	Alpha2    string         `gorm:"column:alpha2;unique"`
	Alpha3    string         `gorm:"column:alpha3;unique"`
	Name      string         `gorm:"column:name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Countries) TableName() string {
	return "m_countries"
}

// GetByCode finds a country by its ISO alpha-2 or alpha-3 code
func (r *GormCountryRepository) GetByCode(ctx context.Context, code string) (*entity.Country, error) {
	var country Countries
	result := r.db.WithContext(ctx).Unscoped().Where("alpha2 = ? OR alpha3 = ?", code, code).First(&country)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Country{
		ID:        country.ID,
		Alpha2:    country.Alpha2,
		Alpha3:    country.Alpha3,
		Name:      country.Name,
		CreatedAt: country.CreatedAt,
		UpdatedAt: country.UpdatedAt,
		DeletedAt: country.DeletedAt,
	}, nil
}
