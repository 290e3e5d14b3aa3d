package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OfferStatus string

const (
	OfferStatusDraft    OfferStatus = "draft"
	OfferStatusSent     OfferStatus = "sent"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
	OfferStatusExpired  OfferStatus = "expired"
)

var OfferStatuses = []OfferStatus{
	OfferStatusDraft,
	OfferStatusSent,
	OfferStatusAccepted,
	OfferStatusRejected,
	OfferStatusExpired,
}

type DiscountMode string

const (
	DiscountModeGlobal  DiscountMode = "global"
	DiscountModePerLine DiscountMode = "per_line"
)

type Offer struct {
	ID                       uint64            `gorm:"primarykey" json:"id"`
	Number                   string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"number"`
	Title                    string            `gorm:"type:varchar(255);not null" json:"title"`
	Introduction             string            `gorm:"type:text" json:"introduction"`
	Status                   OfferStatus       `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	OrganizationID           uint64            `gorm:"not null;index" json:"organization_id"`
	ContactID                *uint64           `gorm:"index" json:"contact_id"`
	CorporateEntityID        *uint64           `json:"corporate_entity_id"`
	PaymentTermID            *uint64           `json:"payment_term_id"`
	DeliveryConditionID      *uint64           `json:"delivery_condition_id"`
	DiscountMode             DiscountMode      `gorm:"type:varchar(20);not null;default:'global'" json:"discount_mode"`
	GlobalDiscountPercentage decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0" json:"global_discount_percentage"`
	TaxPercentage            decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percentage"`
	Currency                 string            `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	ValidUntil               *time.Time        `json:"valid_until"`
	TotalAmount              decimal.Decimal   `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	PublicToken              string            `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_token"`
	AcceptedAt               *time.Time        `json:"accepted_at"`
	Meta                     datatypes.JSONMap `json:"meta,omitempty"`
	CreatedByID              *uint64           `json:"created_by_id"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`

	// Relations
	Organization      *Organization       `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Contact           *Contact            `gorm:"foreignKey:ContactID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"contact,omitempty"`
	CorporateEntity   *CorporateEntity    `gorm:"foreignKey:CorporateEntityID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"corporate_entity,omitempty"`
	PaymentTerm       *PaymentTerm        `gorm:"foreignKey:PaymentTermID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"payment_term,omitempty"`
	DeliveryCondition *DeliveryCondition  `gorm:"foreignKey:DeliveryConditionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"delivery_condition,omitempty"`
	Lines             []OfferService      `gorm:"foreignKey:OfferID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lines,omitempty"`
	SelectedLinks     []OfferSelectedLink `gorm:"foreignKey:OfferID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"selected_links,omitempty"`
	AccessLogs        []OfferAccessLog    `gorm:"foreignKey:OfferID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Acceptance        *OfferAcceptance    `gorm:"foreignKey:OfferID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"acceptance,omitempty"`
}

// OfferService is a line item on an offer: a catalog service or a custom entry.
type OfferService struct {
	ID                 uint64              `gorm:"primarykey" json:"id"`
	OfferID            uint64              `gorm:"not null;index" json:"offer_id"`
	ServiceID          *uint64             `gorm:"index" json:"service_id"`
	IsCustom           bool                `gorm:"not null;default:false" json:"is_custom"`
	CustomTitle        string              `gorm:"type:varchar(255)" json:"custom_title"`
	CustomDescription  string              `gorm:"type:text" json:"custom_description"`
	Price              decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"price"`
	Quantity           int                 `gorm:"not null;default:1" json:"quantity"`
	DiscountPercentage decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"discount_percentage"`
	Position           int                 `gorm:"not null;default:0" json:"position"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`

	// Relations
	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"service,omitempty"`
}

// Title returns the display title of the line.
func (l OfferService) Title() string {
	if l.IsCustom || l.Service == nil {
		return l.CustomTitle
	}
	return l.Service.Name
}

// Description returns the display description of the line.
func (l OfferService) Description() string {
	if l.CustomDescription != "" || l.Service == nil {
		return l.CustomDescription
	}
	return l.Service.Description
}

// IsRecurring reports whether the line bills a recurring service.
func (l OfferService) IsRecurring() bool {
	return !l.IsCustom && l.Service != nil && l.Service.IsRecurring
}

type OfferSelectedLink struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	OfferID      uint64    `gorm:"not null;uniqueIndex:idx_offer_link" json:"offer_id"`
	LinkPresetID uint64    `gorm:"not null;uniqueIndex:idx_offer_link" json:"link_preset_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	LinkPreset *OfferLinkPreset `gorm:"foreignKey:LinkPresetID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"link_preset,omitempty"`
}

// OfferAccessLog records a visit to the public offer page.
type OfferAccessLog struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	OfferID    uint64    `gorm:"not null;index" json:"offer_id"`
	IPAddress  string    `gorm:"column:ip_address;type:varchar(64)" json:"ip_address"`
	UserAgent  string    `gorm:"type:varchar(512)" json:"user_agent"`
	Referrer   string    `gorm:"type:varchar(1024)" json:"referrer"`
	AccessedAt time.Time `gorm:"not null;index" json:"accessed_at"`
}

// OfferAcceptance is the record the client leaves when accepting an offer.
type OfferAcceptance struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	OfferID    uint64    `gorm:"not null;uniqueIndex" json:"offer_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);not null" json:"email"`
	Comment    string    `gorm:"type:text" json:"comment"`
	IPAddress  string    `gorm:"column:ip_address;type:varchar(64)" json:"ip_address"`
	AcceptedAt time.Time `gorm:"not null" json:"accepted_at"`
}

func (s OfferStatus) Valid() bool {
	for _, status := range OfferStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsPublic reports whether the offer may be shown on the public page.
func (o Offer) IsPublic() bool {
	return o.Status != OfferStatusDraft
}

// IsExpired reports whether the offer validity has passed at the given time.
// ValidUntil is the last valid day, so the offer stays open until that day ends in UTC.
func (o Offer) IsExpired(now time.Time) bool {
	if o.Status == OfferStatusExpired {
		return true
	}
	if o.ValidUntil == nil {
		return false
	}
	y, m, d := o.ValidUntil.UTC().Date()
	return !now.Before(time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC))
}
