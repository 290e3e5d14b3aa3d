package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/bizops-api/internal/database"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSaveOfferHeader is returned when the offer row itself cannot be updated.
	ErrSaveOfferHeader = errors.New("offer repository: update offer failed")
	// ErrReplaceOfferLines is returned when the line items cannot be replaced.
	ErrReplaceOfferLines = errors.New("offer repository: replace lines failed")
	// ErrReplaceOfferLinks is returned when the selected links cannot be replaced.
	ErrReplaceOfferLinks = errors.New("offer repository: replace links failed")
	// ErrOfferNotAcceptable is returned when the offer left the sent state before acceptance.
	ErrOfferNotAcceptable = errors.New("offer repository: offer is not open for acceptance")
)

// offerHeaderFields are the columns Save writes on the offers row.
var offerHeaderFields = []string{
	"Title", "Introduction", "Status", "OrganizationID", "ContactID", "CorporateEntityID",
	"PaymentTermID", "DeliveryConditionID", "DiscountMode", "GlobalDiscountPercentage",
	"TaxPercentage", "Currency", "ValidUntil", "TotalAmount", "Meta", "AcceptedAt", "UpdatedAt",
}

// GormOfferRepository is a GORM implementation of OfferRepository
type GormOfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &GormOfferRepository{db: db}
}

func withOfferRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Organization").
		Preload("Contact").
		Preload("CorporateEntity").
		Preload("PaymentTerm").
		Preload("DeliveryCondition").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("offer_services.position ASC, offer_services.id ASC")
		}).
		Preload("Lines.Service").
		Preload("SelectedLinks.LinkPreset").
		Preload("Acceptance")
}

// Create inserts the offer, its lines and selected links in one transaction.
// Related rows referenced by the lines (services, presets) are never written.
func (r *GormOfferRepository) Create(offer *models.Offer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		lines, links := offer.Lines, offer.SelectedLinks
		if err := tx.Omit(clause.Associations).Create(offer).Error; err != nil {
			return err
		}
		if err := insertLines(tx, offer.ID, lines); err != nil {
			return err
		}
		return insertLinks(tx, offer.ID, linkIDs(links))
	})
}

// FindByID loads an offer with every relation the detail views need
func (r *GormOfferRepository) FindByID(id uint64) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.Scopes(withOfferRelations).First(&offer, id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// FindByPublicToken loads an offer by its public token with full relations
func (r *GormOfferRepository) FindByPublicToken(token string) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.Scopes(withOfferRelations).Where("public_token = ?", token).First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// List returns offers with organization and contact, newest first
func (r *GormOfferRepository) List() ([]models.Offer, error) {
	var offers []models.Offer
	if err := r.db.Preload("Organization").Preload("Contact").
		Order("created_at DESC, id DESC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// Save updates the header, replaces the lines and the selected links. Either
// every step is committed or none is.
func (r *GormOfferRepository) Save(offer *models.Offer, lines []models.OfferService, linkPresetIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(offer).Select(offerHeaderFields).Updates(offer).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrSaveOfferHeader, err)
		}

		if err := tx.Where("offer_id = ?", offer.ID).Delete(&models.OfferService{}).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrReplaceOfferLines, err)
		}
		if err := insertLines(tx, offer.ID, lines); err != nil {
			return fmt.Errorf("%w: %w", ErrReplaceOfferLines, err)
		}

		if err := tx.Where("offer_id = ?", offer.ID).Delete(&models.OfferSelectedLink{}).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrReplaceOfferLinks, err)
		}
		if err := insertLinks(tx, offer.ID, linkPresetIDs); err != nil {
			return fmt.Errorf("%w: %w", ErrReplaceOfferLinks, err)
		}
		return nil
	})
}

// Accept moves a sent offer to accepted. The status check is part of the
// update so two concurrent acceptances cannot both succeed.
func (r *GormOfferRepository) Accept(offerID uint64, acceptance *models.OfferAcceptance) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Offer{}).
			Where("id = ? AND status = ?", offerID, models.OfferStatusSent).
			Updates(map[string]any{
				"status":      models.OfferStatusAccepted,
				"accepted_at": acceptance.AcceptedAt,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOfferNotAcceptable
		}

		acceptance.OfferID = offerID
		return tx.Create(acceptance).Error
	})
}

// Delete removes the offer; lines, links, access logs and the acceptance cascade
func (r *GormOfferRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Offer{}, id).Error
}

// LogAccess records a visit to the public offer page
func (r *GormOfferRepository) LogAccess(log *models.OfferAccessLog) error {
	return r.db.Create(log).Error
}

// ListAccessLogs returns visits of an offer, newest first
func (r *GormOfferRepository) ListAccessLogs(offerID uint64, params utils.PaginationParams) ([]models.OfferAccessLog, int64, error) {
	var total int64
	query := r.db.Model(&models.OfferAccessLog{}).Where("offer_id = ?", offerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.OfferAccessLog
	if err := query.Order("accessed_at DESC, id DESC").
		Scopes(database.Paginate(params)).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func insertLines(tx *gorm.DB, offerID uint64, lines []models.OfferService) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.OfferService, len(lines))
	for i, line := range lines {
		line.ID = 0
		line.OfferID = offerID
		line.Service = nil
		rows[i] = line
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func insertLinks(tx *gorm.DB, offerID uint64, presetIDs []uint64) error {
	if len(presetIDs) == 0 {
		return nil
	}
	seen := make(map[uint64]bool, len(presetIDs))
	rows := make([]models.OfferSelectedLink, 0, len(presetIDs))
	for _, id := range presetIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.OfferSelectedLink{OfferID: offerID, LinkPresetID: id})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func linkIDs(links []models.OfferSelectedLink) []uint64 {
	ids := make([]uint64, len(links))
	for i, l := range links {
		ids[i] = l.LinkPresetID
	}
	return ids
}
