package models

import "time"

type Contact struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(100)" json:"last_name"`
	Email          string    `gorm:"type:varchar(255)" json:"email"`
	Phone          string    `gorm:"type:varchar(50)" json:"phone"`
	Position       string    `gorm:"type:varchar(100)" json:"position"`
	Notes          string    `gorm:"type:text" json:"notes"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (c Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
