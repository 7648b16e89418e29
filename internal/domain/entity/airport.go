package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airport is reference data for one airport, including the IANA timezone
// used to anchor raw local times to UTC.
type Airport struct {
	ID        uint
	Code      string
	Name      string
	CityCode  string
	CityName  string
	GmtTz     string
	TzName    string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
