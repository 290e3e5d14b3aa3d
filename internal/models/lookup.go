package models

import "time"

// CorporateEntity is the issuing legal entity printed on an offer.
type CorporateEntity struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	LegalName string    `gorm:"type:varchar(255)" json:"legal_name"`
	Address   string    `gorm:"type:text" json:"address"`
	VATNumber string    `gorm:"column:vat_number;type:varchar(50)" json:"vat_number"`
	IBAN      string    `gorm:"column:iban;type:varchar(50)" json:"iban"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	LogoKey   string    `gorm:"type:varchar(255)" json:"logo_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentTerm struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	DaysDue     int       `gorm:"not null;default:0" json:"days_due"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DeliveryCondition struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OfferLinkPreset is a reusable link (terms, portfolio, ...) that can be attached to offers.
type OfferLinkPreset struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	URL         string    `gorm:"column:url;type:varchar(1024);not null" json:"url"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
