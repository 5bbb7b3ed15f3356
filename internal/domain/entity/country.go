package entity

import (
	"time"

	"gorm.io/gorm"
)

// Country represents a nationality lookup row
type Country struct {
	ID        uint
	Alpha2    string
	Alpha3    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
