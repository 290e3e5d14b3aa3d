package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/bizops-api/internal/constants"
)

type ServiceGroupType string

const (
	ServiceGroupDevelopment ServiceGroupType = "development"
	ServiceGroupLicense     ServiceGroupType = "license"
	ServiceGroupSupport     ServiceGroupType = "support"
	ServiceGroupHosting     ServiceGroupType = "hosting"
	ServiceGroupConsulting  ServiceGroupType = "consulting"
	ServiceGroupOther       ServiceGroupType = "other"
)

var ServiceGroupTypes = []ServiceGroupType{
	ServiceGroupDevelopment,
	ServiceGroupLicense,
	ServiceGroupSupport,
	ServiceGroupHosting,
	ServiceGroupConsulting,
	ServiceGroupOther,
}

type RecurringInterval string

const (
	RecurringMonthly RecurringInterval = "monthly"
	RecurringYearly  RecurringInterval = "yearly"
)

// Service is a catalog item that offers are composed of.
type Service struct {
	ID                uint64            `gorm:"primarykey" json:"id"`
	Name              string            `gorm:"type:varchar(255);not null" json:"name"`
	Description       string            `gorm:"type:text" json:"description"`
	Price             decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"price"`
	IsRecurring       bool              `gorm:"not null;default:false" json:"is_recurring"`
	RecurringInterval RecurringInterval `gorm:"type:varchar(20)" json:"recurring_interval,omitempty"`
	GroupType         ServiceGroupType  `gorm:"type:varchar(30);not null;default:'other'" json:"group_type"`
	// no column default: gorm would replace an explicit false with it on insert
	IsActive          bool              `gorm:"not null" json:"is_active"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// AllowsCustomPrice reports whether offer lines for this service may override the catalog price.
func (s Service) AllowsCustomPrice() bool {
	return s.Name == constants.ServiceCustomDevelopment || s.Name == constants.ServiceCustomLicense
}

func (g ServiceGroupType) Valid() bool {
	for _, group := range ServiceGroupTypes {
		if g == group {
			return true
		}
	}
	return false
}
