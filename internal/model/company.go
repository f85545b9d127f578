// internal/model/company.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionBlocked SubscriptionStatus = "blocked"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Subscription is embedded in Company, mirroring the plan the company bought.
// The plan's limits are copied by value at subscribe time, so editing a Plan
// never changes the caps of companies already subscribed to it.
type Subscription struct {
	PlanID           *uuid.UUID         `gorm:"type:uuid" json:"plan_id,omitempty"`
	StartDate        *time.Time         `json:"start_date,omitempty"`
	EndDate          *time.Time         `json:"end_date,omitempty"`
	Status           SubscriptionStatus `gorm:"type:text" json:"status,omitempty"`
	MaxManagers      int                `gorm:"not null;default:0" json:"max_managers"`
	CurrentManagers  int                `gorm:"not null;default:0" json:"current_managers"`
	MaxEmployees     int                `gorm:"not null;default:0" json:"max_employees"`
	CurrentEmployees int                `gorm:"not null;default:0" json:"current_employees"`
}

// Exists reports whether the company has ever subscribed to a plan.
func (s Subscription) Exists() bool {
	return s.PlanID != nil
}

// ExpiredAt reports whether the subscription window has lapsed at the given
// instant, regardless of whether the sweep has flipped the stored status yet.
func (s Subscription) ExpiredAt(now time.Time) bool {
	if s.Status == SubscriptionExpired {
		return true
	}
	return s.Status == SubscriptionActive && s.EndDate != nil && s.EndDate.Before(now)
}

type Company struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID      uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	Name         string       `gorm:"type:text;uniqueIndex;not null" json:"name"`
	CompanyType  string       `gorm:"type:text" json:"type"`
	ContactEmail string       `gorm:"type:citext" json:"contact_email"`
	Website      string       `gorm:"type:text" json:"website"`
	LogoURL      string       `gorm:"type:text" json:"logo_url"`
	IsVerified   bool         `gorm:"not null;default:false" json:"is_verified"`
	Subscription Subscription `gorm:"embedded;embeddedPrefix:subscription_" json:"subscription"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}
