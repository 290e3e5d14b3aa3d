package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/pricing"
)

// PublicPartyDTO is the client organization or issuing entity as shown to the client
type PublicPartyDTO struct {
	Name      string `json:"name"`
	LegalName string `json:"legal_name,omitempty"`
	Address   string `json:"address,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
	IBAN      string `json:"iban,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
}

// PublicTermDTO is a payment term or delivery condition
type PublicTermDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DaysDue     *int   `json:"days_due,omitempty"`
}

// PublicLineDTO is an offer line without internal identifiers
type PublicLineDTO struct {
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	Price              decimal.Decimal     `json:"price"`
	Quantity           int                 `json:"quantity"`
	DiscountPercentage decimal.NullDecimal `json:"discount_percentage"`
	Recurring          bool                `json:"recurring"`
	RecurringInterval  string              `json:"recurring_interval,omitempty"`
	Net                decimal.Decimal     `json:"net"`
}

// PublicLinkDTO is a link attached to the offer
type PublicLinkDTO struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// PublicAcceptanceDTO is the acceptance as shown back to the client
type PublicAcceptanceDTO struct {
	Name       string    `json:"name"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// PublicOfferDTO is the client facing offer page payload
type PublicOfferDTO struct {
	Number            string               `json:"number"`
	Title             string               `json:"title"`
	Introduction      string               `json:"introduction"`
	Status            models.OfferStatus   `json:"status"`
	Currency          string               `json:"currency"`
	DiscountMode      models.DiscountMode  `json:"discount_mode"`
	ValidUntil        *time.Time           `json:"valid_until"`
	Expired           bool                 `json:"expired"`
	CanAccept         bool                 `json:"can_accept"`
	Organization      *PublicPartyDTO      `json:"organization,omitempty"`
	ContactName       string               `json:"contact_name,omitempty"`
	CorporateEntity   *PublicPartyDTO      `json:"corporate_entity,omitempty"`
	PaymentTerm       *PublicTermDTO       `json:"payment_term,omitempty"`
	DeliveryCondition *PublicTermDTO       `json:"delivery_condition,omitempty"`
	Lines             []PublicLineDTO      `json:"lines"`
	Links             []PublicLinkDTO      `json:"links"`
	Totals            pricing.Totals       `json:"totals"`
	AmountInWords     string               `json:"amount_in_words"`
	Acceptance        *PublicAcceptanceDTO `json:"acceptance,omitempty"`
}

// PublicProjectDTO is the client facing project page payload
type PublicProjectDTO struct {
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	Status           models.ProjectStatus `json:"status"`
	StartDate        *time.Time           `json:"start_date"`
	EndDate          *time.Time           `json:"end_date"`
	OrganizationName string               `json:"organization_name"`
}

// ToPublicOfferDTO flattens a fully loaded offer for the public page
func ToPublicOfferDTO(offer models.Offer, totals pricing.Totals, words string, expired bool, logoURL string) PublicOfferDTO {
	out := PublicOfferDTO{
		Number:        offer.Number,
		Title:         offer.Title,
		Introduction:  offer.Introduction,
		Status:        offer.Status,
		Currency:      offer.Currency,
		DiscountMode:  offer.DiscountMode,
		ValidUntil:    offer.ValidUntil,
		Expired:       expired,
		CanAccept:     offer.Status == models.OfferStatusSent && !expired,
		Lines:         make([]PublicLineDTO, len(offer.Lines)),
		Links:         make([]PublicLinkDTO, 0, len(offer.SelectedLinks)),
		Totals:        totals,
		AmountInWords: words,
	}

	if org := offer.Organization; org != nil {
		out.Organization = &PublicPartyDTO{
			Name:      org.Name,
			Address:   org.Address,
			VATNumber: org.VATNumber,
			Email:     org.Email,
			Phone:     org.Phone,
		}
	}
	if offer.Contact != nil {
		out.ContactName = offer.Contact.FullName()
	}
	if ce := offer.CorporateEntity; ce != nil {
		out.CorporateEntity = &PublicPartyDTO{
			Name:      ce.Name,
			LegalName: ce.LegalName,
			Address:   ce.Address,
			VATNumber: ce.VATNumber,
			IBAN:      ce.IBAN,
			Email:     ce.Email,
			Phone:     ce.Phone,
			LogoURL:   logoURL,
		}
	}
	if pt := offer.PaymentTerm; pt != nil {
		days := pt.DaysDue
		out.PaymentTerm = &PublicTermDTO{Name: pt.Name, Description: pt.Description, DaysDue: &days}
	}
	if dc := offer.DeliveryCondition; dc != nil {
		out.DeliveryCondition = &PublicTermDTO{Name: dc.Name, Description: dc.Description}
	}

	for i, line := range offer.Lines {
		dto := PublicLineDTO{
			Title:              line.Title(),
			Description:        line.Description(),
			Price:              line.Price,
			Quantity:           line.Quantity,
			DiscountPercentage: line.DiscountPercentage,
			Recurring:          line.IsRecurring(),
		}
		if dto.Recurring {
			dto.RecurringInterval = string(line.Service.RecurringInterval)
		}
		if i < len(totals.Lines) {
			dto.Net = totals.Lines[i].Net
		}
		out.Lines[i] = dto
	}

	for _, link := range offer.SelectedLinks {
		if link.LinkPreset == nil {
			continue
		}
		out.Links = append(out.Links, PublicLinkDTO{
			Name:        link.LinkPreset.Name,
			URL:         link.LinkPreset.URL,
			Description: link.LinkPreset.Description,
		})
	}

	if a := offer.Acceptance; a != nil {
		out.Acceptance = &PublicAcceptanceDTO{Name: a.Name, AcceptedAt: a.AcceptedAt}
	}
	return out
}

// ToPublicProjectDTO converts a project for the public page
func ToPublicProjectDTO(project models.Project) PublicProjectDTO {
	out := PublicProjectDTO{
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
	}
	if project.Organization != nil {
		out.OrganizationName = project.Organization.Name
	}
	return out
}
