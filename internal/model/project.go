// internal/model/project.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanned, ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	CompanyID   uuid.UUID     `gorm:"type:uuid;not null" json:"company_id"`
	AdminID     uuid.UUID     `gorm:"type:uuid;not null" json:"admin_id"`
	ManagerID   *uuid.UUID    `gorm:"type:uuid" json:"manager_id,omitempty"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Status      ProjectStatus `gorm:"type:text;not null;default:'planned'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Company     *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Admin       *User    `gorm:"foreignKey:AdminID" json:"-"`
	Manager     *User    `gorm:"foreignKey:ManagerID" json:"-"`
	TeamMembers []User   `gorm:"many2many:project_team_members" json:"team_members"`
}

// HasMember reports whether the user is already on the project team.
func (p *Project) HasMember(userID uuid.UUID) bool {
	for _, m := range p.TeamMembers {
		if m.ID == userID {
			return true
		}
	}
	return false
}
