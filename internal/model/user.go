// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyOwner Role = "company_owner"
	RoleManager      Role = "manager"
	RoleUser         Role = "user"
)

// Privileged reports whether the role bypasses the company subscription gate.
func (r Role) Privileged() bool {
	return r == RoleSuperAdmin || r == RoleCompanyOwner
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyOwner, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string     `gorm:"type:text;not null" json:"name"`
	Email        string     `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:text;not null" json:"-"`
	Role         Role       `gorm:"type:text;not null;default:'company_owner'" json:"role"`
	CompanyID    *uuid.UUID `gorm:"type:uuid" json:"company_id,omitempty"`
	ManagerID    *uuid.UUID `gorm:"type:uuid" json:"manager_id,omitempty"`
	CreatedByID  *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	IsRegistered bool       `gorm:"not null;default:false" json:"is_registered"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Manager   *User `gorm:"foreignKey:ManagerID" json:"-"`
	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"-"`
}
