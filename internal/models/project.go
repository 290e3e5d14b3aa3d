package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

var ProjectStatuses = []ProjectStatus{
	ProjectStatusPlanned,
	ProjectStatusActive,
	ProjectStatusOnHold,
	ProjectStatusCompleted,
	ProjectStatusCancelled,
}

type Project struct {
	ID             uint64              `gorm:"primarykey" json:"id"`
	Name           string              `gorm:"type:varchar(255);not null" json:"name"`
	Description    string              `gorm:"type:text" json:"description"`
	Status         ProjectStatus       `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	StartDate      *time.Time          `json:"start_date"`
	EndDate        *time.Time          `json:"end_date"`
	Budget         decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"budget"`
	OrganizationID uint64              `gorm:"not null;index" json:"organization_id"`
	PublicToken    string              `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_token"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (s ProjectStatus) Valid() bool {
	for _, status := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}
