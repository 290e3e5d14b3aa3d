package models

import "time"

type Organization struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	Website   string    `gorm:"type:varchar(255)" json:"website"`
	Address   string    `gorm:"type:text" json:"address"`
	VATNumber string    `gorm:"column:vat_number;type:varchar(50)" json:"vat_number"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Contacts []Contact `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"contacts,omitempty"`
	Projects []Project `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"projects,omitempty"`
	Offers   []Offer   `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"offers,omitempty"`
}
