// internal/model/plan.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Plan is an immutable template. Subscriptions copy its limits by value.
type Plan struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Price          int64     `gorm:"not null" json:"price"`
	DurationInDays int       `gorm:"not null" json:"duration_in_days"`
	MaxManagers    int       `gorm:"not null" json:"max_managers"`
	MaxEmployees   int       `gorm:"not null" json:"max_employees"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
