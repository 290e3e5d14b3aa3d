package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/bizops-api/internal/constants"
	"github.com/yukikurage/bizops-api/internal/database"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/pricing"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/utils"
	"gorm.io/datatypes"
)

const offerNumberAttempts = 3

var (
	ErrOfferNotFound          = errors.New("offer not found")
	ErrInvalidOfferTitle      = errors.New("offer title cannot be empty")
	ErrOfferOrgIDRequired     = errors.New("offer organization is required")
	ErrInvalidOfferStatus     = errors.New("invalid offer status")
	ErrInvalidDiscountMode    = errors.New("discount mode must be global or per_line")
	ErrInvalidCurrency        = errors.New("currency must be a three letter code")
	ErrLineServiceRequired    = errors.New("offer line needs a service or must be custom")
	ErrCustomLineTitle        = errors.New("custom offer line needs a title")
	ErrCustomLinePrice        = errors.New("custom offer line needs a price")
	ErrLinkPresetNotFound     = errors.New("link preset not found")
	ErrOfferNumberUnavailable = errors.New("failed to allocate a unique offer number")
)

// OfferService composes offers from catalog services and keeps their totals
// consistent with their lines.
type OfferService struct {
	offerRepo   repository.OfferRepository
	serviceRepo repository.ServiceRepository
	presetRepo  repository.LookupRepository[models.OfferLinkPreset]
	drafter     IntroductionDrafter
	now         func() time.Time
}

func NewOfferService(
	offerRepo repository.OfferRepository,
	serviceRepo repository.ServiceRepository,
	presetRepo repository.LookupRepository[models.OfferLinkPreset],
	drafter IntroductionDrafter,
) *OfferService {
	return &OfferService{
		offerRepo:   offerRepo,
		serviceRepo: serviceRepo,
		presetRepo:  presetRepo,
		drafter:     drafter,
		now:         time.Now,
	}
}

// OfferLineInput describes one line item. Lines either reference a catalog
// service or are custom; Price only applies to custom lines and to services
// that allow a custom price.
type OfferLineInput struct {
	ServiceID          *uint64             `json:"service_id"`
	IsCustom           bool                `json:"is_custom"`
	CustomTitle        string              `json:"custom_title"`
	CustomDescription  string              `json:"custom_description"`
	Price              *decimal.Decimal    `json:"price"`
	Quantity           int                 `json:"quantity"`
	DiscountPercentage decimal.NullDecimal `json:"discount_percentage"`
	Position           *int                `json:"position"`
}

// OfferInput carries writable offer fields. Nil fields are left unchanged;
// a nil Lines or LinkPresetIDs keeps the current lines or links. Optional
// references are cleared by sending 0.
type OfferInput struct {
	Title                    *string              `json:"title"`
	Introduction             *string              `json:"introduction"`
	Status                   *models.OfferStatus  `json:"status"`
	OrganizationID           *uint64              `json:"organization_id"`
	ContactID                *uint64              `json:"contact_id"`
	CorporateEntityID        *uint64              `json:"corporate_entity_id"`
	PaymentTermID            *uint64              `json:"payment_term_id"`
	DeliveryConditionID      *uint64              `json:"delivery_condition_id"`
	DiscountMode             *models.DiscountMode `json:"discount_mode"`
	GlobalDiscountPercentage *decimal.Decimal     `json:"global_discount_percentage"`
	TaxPercentage            *decimal.Decimal     `json:"tax_percentage"`
	Currency                 *string              `json:"currency"`
	ValidUntil               *string              `json:"valid_until"`
	Meta                     map[string]any       `json:"meta"`
	Lines                    []OfferLineInput     `json:"lines"`
	LinkPresetIDs            []uint64             `json:"link_preset_ids"`
}

// CalculateInput is an unsaved offer to preview totals for.
type CalculateInput struct {
	DiscountMode             models.DiscountMode `json:"discount_mode"`
	GlobalDiscountPercentage decimal.Decimal     `json:"global_discount_percentage"`
	TaxPercentage            decimal.Decimal     `json:"tax_percentage"`
	Lines                    []OfferLineInput    `json:"lines"`
}

func (in OfferInput) applyHeader(offer *models.Offer) error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return ErrInvalidOfferTitle
	}
	if in.Status != nil && !in.Status.Valid() {
		return ErrInvalidOfferStatus
	}
	if in.OrganizationID != nil && *in.OrganizationID == 0 {
		return ErrOfferOrgIDRequired
	}
	if in.DiscountMode != nil && *in.DiscountMode != models.DiscountModeGlobal && *in.DiscountMode != models.DiscountModePerLine {
		return ErrInvalidDiscountMode
	}
	if in.Currency != nil && len(strings.TrimSpace(*in.Currency)) != 3 {
		return ErrInvalidCurrency
	}

	setString(&offer.Title, in.Title)
	setString(&offer.Introduction, in.Introduction)
	if in.Status != nil {
		offer.Status = *in.Status
	}
	if in.OrganizationID != nil {
		offer.OrganizationID = *in.OrganizationID
		offer.Organization = nil
	}
	if in.ContactID != nil {
		offer.ContactID = optionalID(*in.ContactID)
		offer.Contact = nil
	}
	if in.CorporateEntityID != nil {
		offer.CorporateEntityID = optionalID(*in.CorporateEntityID)
		offer.CorporateEntity = nil
	}
	if in.PaymentTermID != nil {
		offer.PaymentTermID = optionalID(*in.PaymentTermID)
		offer.PaymentTerm = nil
	}
	if in.DeliveryConditionID != nil {
		offer.DeliveryConditionID = optionalID(*in.DeliveryConditionID)
		offer.DeliveryCondition = nil
	}
	if in.DiscountMode != nil {
		offer.DiscountMode = *in.DiscountMode
	}
	if in.GlobalDiscountPercentage != nil {
		offer.GlobalDiscountPercentage = *in.GlobalDiscountPercentage
	}
	if in.TaxPercentage != nil {
		offer.TaxPercentage = *in.TaxPercentage
	}
	if in.Currency != nil {
		offer.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.ValidUntil != nil {
		d, err := parseDate(*in.ValidUntil)
		if err != nil {
			return err
		}
		offer.ValidUntil = d
	}
	if in.Meta != nil {
		offer.Meta = datatypes.JSONMap(in.Meta)
	}
	return nil
}

// resolveLines turns line inputs into rows with their effective prices.
func (s *OfferService) resolveLines(inputs []OfferLineInput) ([]models.OfferService, error) {
	var ids []uint64
	for _, in := range inputs {
		if !in.IsCustom && in.ServiceID != nil {
			ids = append(ids, *in.ServiceID)
		}
	}

	catalog := map[uint64]models.Service{}
	if len(ids) > 0 {
		services, err := s.serviceRepo.FindByIDs(ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load services: %w", err)
		}
		for _, svc := range services {
			catalog[svc.ID] = svc
		}
	}

	lines := make([]models.OfferService, len(inputs))
	for i, in := range inputs {
		line := models.OfferService{
			IsCustom:           in.IsCustom,
			CustomDescription:  strings.TrimSpace(in.CustomDescription),
			Quantity:           in.Quantity,
			DiscountPercentage: in.DiscountPercentage,
			Position:           i,
		}
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		if in.Position != nil {
			line.Position = *in.Position
		}

		if in.IsCustom {
			line.CustomTitle = strings.TrimSpace(in.CustomTitle)
			if line.CustomTitle == "" {
				return nil, fmt.Errorf("line %d: %w", i+1, ErrCustomLineTitle)
			}
			if in.Price == nil {
				return nil, fmt.Errorf("line %d: %w", i+1, ErrCustomLinePrice)
			}
			line.Price = *in.Price
		} else {
			if in.ServiceID == nil {
				return nil, fmt.Errorf("line %d: %w", i+1, ErrLineServiceRequired)
			}
			svc, ok := catalog[*in.ServiceID]
			if !ok {
				return nil, fmt.Errorf("line %d: %w", i+1, ErrServiceNotFound)
			}
			line.ServiceID = &svc.ID
			line.Service = &svc
			line.CustomTitle = strings.TrimSpace(in.CustomTitle)
			line.Price = svc.Price
			if svc.AllowsCustomPrice() && in.Price != nil {
				line.Price = *in.Price
			}
		}
		lines[i] = line
	}
	return lines, nil
}

// Totals prices an offer from its stored lines.
func Totals(offer *models.Offer) (pricing.Totals, error) {
	return priceLines(offer.Lines, offer.DiscountMode, offer.GlobalDiscountPercentage, offer.TaxPercentage)
}

func priceLines(lines []models.OfferService, mode models.DiscountMode, discount, tax decimal.Decimal) (pricing.Totals, error) {
	in := pricing.Input{
		Lines:                    make([]pricing.Line, len(lines)),
		Mode:                     pricing.Mode(mode),
		GlobalDiscountPercentage: discount,
		TaxPercentage:            tax,
	}
	for i, l := range lines {
		in.Lines[i] = pricing.Line{
			Price:              l.Price,
			Quantity:           l.Quantity,
			DiscountPercentage: l.DiscountPercentage,
			Recurring:          l.IsRecurring(),
		}
	}
	return pricing.Calculate(in)
}

func (s *OfferService) checkPresets(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.presetRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to load link presets: %w", err)
	}
	have := make(map[uint64]bool, len(found))
	for _, p := range found {
		have[p.ID] = true
	}
	for _, id := range ids {
		if !have[id] {
			return ErrLinkPresetNotFound
		}
	}
	return nil
}

// Calculate previews the totals of an unsaved offer.
func (s *OfferService) Calculate(input CalculateInput) (pricing.Totals, error) {
	lines, err := s.resolveLines(input.Lines)
	if err != nil {
		return pricing.Totals{}, err
	}
	return priceLines(lines, input.DiscountMode, input.GlobalDiscountPercentage, input.TaxPercentage)
}

func (s *OfferService) List() ([]models.Offer, error) {
	offers, err := s.offerRepo.List()
	if err != nil {
		return nil, findError(err, ErrOfferNotFound, "offers")
	}
	return offers, nil
}

func (s *OfferService) Get(id uint64) (*models.Offer, error) {
	offer, err := s.offerRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrOfferNotFound, "offer")
	}
	return offer, nil
}

// Create builds a new offer, prices it and assigns number and public token.
func (s *OfferService) Create(userID uint64, input OfferInput) (*models.Offer, error) {
	if input.Title == nil {
		return nil, ErrInvalidOfferTitle
	}
	if input.OrganizationID == nil {
		return nil, ErrOfferOrgIDRequired
	}

	now := s.now()
	validUntil := now.AddDate(0, 0, constants.DefaultOfferValidDays).UTC().Truncate(24 * time.Hour)
	offer := &models.Offer{
		Status:       models.OfferStatusDraft,
		DiscountMode: models.DiscountModeGlobal,
		Currency:     constants.DefaultCurrency,
		ValidUntil:   &validUntil,
		PublicToken:  utils.GeneratePublicToken(),
		CreatedByID:  optionalID(userID),
	}
	if err := input.applyHeader(offer); err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(input.Lines)
	if err != nil {
		return nil, err
	}
	if err := s.checkPresets(input.LinkPresetIDs); err != nil {
		return nil, err
	}
	offer.Lines = lines
	offer.SelectedLinks = make([]models.OfferSelectedLink, len(input.LinkPresetIDs))
	for i, id := range input.LinkPresetIDs {
		offer.SelectedLinks[i] = models.OfferSelectedLink{LinkPresetID: id}
	}
	if offer.Status == models.OfferStatusAccepted {
		offer.AcceptedAt = &now
	}

	totals, err := Totals(offer)
	if err != nil {
		return nil, err
	}
	offer.TotalAmount = totals.GrandTotal

	if err := s.insertWithNumber(offer, now); err != nil {
		return nil, err
	}
	return s.Get(offer.ID)
}

// insertWithNumber retries with a new number when the generated one is taken.
func (s *OfferService) insertWithNumber(offer *models.Offer, now time.Time) error {
	for attempt := 0; attempt < offerNumberAttempts; attempt++ {
		number, err := utils.GenerateOfferNumber(now)
		if err != nil {
			return fmt.Errorf("failed to generate offer number: %w", err)
		}
		offer.ID = 0
		offer.Number = number

		err = s.offerRepo.Create(offer)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return writeError(err, "offer")
		}
	}
	return ErrOfferNumberUnavailable
}

// Update applies header changes, replaces lines and links when given, and
// recomputes the total. All of it is written in one transaction.
func (s *OfferService) Update(id uint64, input OfferInput) (*models.Offer, error) {
	offer, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	previousStatus := offer.Status
	if err := input.applyHeader(offer); err != nil {
		return nil, err
	}
	if offer.Status == models.OfferStatusAccepted && previousStatus != models.OfferStatusAccepted && offer.AcceptedAt == nil {
		now := s.now()
		offer.AcceptedAt = &now
	}

	lines := offer.Lines
	if input.Lines != nil {
		if lines, err = s.resolveLines(input.Lines); err != nil {
			return nil, err
		}
	}

	presetIDs := input.LinkPresetIDs
	if presetIDs == nil {
		presetIDs = make([]uint64, len(offer.SelectedLinks))
		for i, l := range offer.SelectedLinks {
			presetIDs[i] = l.LinkPresetID
		}
	} else if err := s.checkPresets(presetIDs); err != nil {
		return nil, err
	}

	totals, err := priceLines(lines, offer.DiscountMode, offer.GlobalDiscountPercentage, offer.TaxPercentage)
	if err != nil {
		return nil, err
	}
	offer.TotalAmount = totals.GrandTotal

	if err := s.offerRepo.Save(offer, lines, presetIDs); err != nil {
		return nil, writeError(err, "offer")
	}
	return s.Get(id)
}

func (s *OfferService) Delete(id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.offerRepo.Delete(id); err != nil {
		return deleteError(err, "offer")
	}
	return nil
}

// Duplicate copies an offer, its lines and links into a new draft.
func (s *OfferService) Duplicate(id, userID uint64) (*models.Offer, error) {
	src, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	validUntil := now.AddDate(0, 0, constants.DefaultOfferValidDays).UTC().Truncate(24 * time.Hour)
	dup := &models.Offer{
		Title:                    "Copy of " + src.Title,
		Introduction:             src.Introduction,
		Status:                   models.OfferStatusDraft,
		OrganizationID:           src.OrganizationID,
		ContactID:                src.ContactID,
		CorporateEntityID:        src.CorporateEntityID,
		PaymentTermID:            src.PaymentTermID,
		DeliveryConditionID:      src.DeliveryConditionID,
		DiscountMode:             src.DiscountMode,
		GlobalDiscountPercentage: src.GlobalDiscountPercentage,
		TaxPercentage:            src.TaxPercentage,
		Currency:                 src.Currency,
		ValidUntil:               &validUntil,
		TotalAmount:              src.TotalAmount,
		PublicToken:              utils.GeneratePublicToken(),
		Meta:                     src.Meta,
		CreatedByID:              optionalID(userID),
		Lines:                    src.Lines,
	}
	dup.SelectedLinks = make([]models.OfferSelectedLink, len(src.SelectedLinks))
	for i, l := range src.SelectedLinks {
		dup.SelectedLinks[i] = models.OfferSelectedLink{LinkPresetID: l.LinkPresetID}
	}

	if err := s.insertWithNumber(dup, now); err != nil {
		return nil, err
	}
	return s.Get(dup.ID)
}

// AccessLogs lists visits of the public offer page.
func (s *OfferService) AccessLogs(id uint64, params utils.PaginationParams) ([]models.OfferAccessLog, int64, error) {
	if _, err := s.offerRepo.FindByID(id); err != nil {
		return nil, 0, findError(err, ErrOfferNotFound, "offer")
	}
	logs, total, err := s.offerRepo.ListAccessLogs(id, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list access logs: %w", err)
	}
	return logs, total, nil
}

// DraftIntroduction asks the configured drafter for an introduction text.
// The offer itself is not modified.
func (s *OfferService) DraftIntroduction(ctx context.Context, id uint64) (string, error) {
	if s.drafter == nil {
		return "", ErrAIUnavailable
	}
	offer, err := s.Get(id)
	if err != nil {
		return "", err
	}

	brief := OfferBrief{Title: offer.Title}
	if offer.Organization != nil {
		brief.Organization = offer.Organization.Name
	}
	if offer.Contact != nil {
		brief.Contact = offer.Contact.FullName()
	}
	for _, l := range offer.Lines {
		brief.Lines = append(brief.Lines, fmt.Sprintf("%s x%d", l.Title(), l.Quantity))
	}

	text, err := s.drafter.DraftIntroduction(ctx, brief)
	if err != nil {
		return "", fmt.Errorf("failed to draft introduction: %w", err)
	}
	return text, nil
}
