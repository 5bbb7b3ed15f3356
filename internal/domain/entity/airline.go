package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airline represents an airline lookup row used to validate flight numbers
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
