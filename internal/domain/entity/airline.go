package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airline is reference data mapping an IATA code to its display name.
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
