package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/divan/num2words"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/bizops-api/internal/dto"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/storage"
	"github.com/yukikurage/bizops-api/internal/utils"
	"gorm.io/gorm"
)

const logoURLExpiry = time.Hour

var (
	ErrOfferAlreadyDecided = errors.New("offer has already been accepted or rejected")
	ErrOfferExpired        = errors.New("offer is no longer valid")
	ErrOfferNotOpen        = errors.New("offer is not open for acceptance")
	ErrAcceptanceName      = errors.New("name is required")
	ErrAcceptanceEmail     = errors.New("a valid email is required")
)

// Visit describes the client that opened a public page.
type Visit struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// AcceptInput is what a client submits when accepting an offer.
type AcceptInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

// PublicService serves the token-addressed pages shown to clients.
type PublicService struct {
	offerRepo   repository.OfferRepository
	projectRepo repository.ProjectRepository
	store       storage.ObjectStore
	validate    *validator.Validate
	now         func() time.Time
}

func NewPublicService(offerRepo repository.OfferRepository, projectRepo repository.ProjectRepository, store storage.ObjectStore) *PublicService {
	return &PublicService{
		offerRepo:   offerRepo,
		projectRepo: projectRepo,
		store:       store,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// findOffer hides unknown tokens and drafts behind the same not found error.
func (s *PublicService) findOffer(token string) (*models.Offer, error) {
	if !utils.IsPublicToken(token) {
		return nil, ErrOfferNotFound
	}
	offer, err := s.offerRepo.FindByPublicToken(token)
	if err != nil {
		return nil, findError(err, ErrOfferNotFound, "offer")
	}
	if !offer.IsPublic() {
		return nil, ErrOfferNotFound
	}
	return offer, nil
}

// ViewOffer renders the public offer page and records the visit.
func (s *PublicService) ViewOffer(ctx context.Context, token string, visit Visit) (*dto.PublicOfferDTO, error) {
	offer, err := s.findOffer(token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &models.OfferAccessLog{
		OfferID:    offer.ID,
		IPAddress:  visit.IPAddress,
		UserAgent:  truncate(visit.UserAgent, 512),
		Referrer:   truncate(visit.Referrer, 1024),
		AccessedAt: now,
	}
	if err := s.offerRepo.LogAccess(entry); err != nil {
		// A lost visit record must not break the client page.
		logrus.WithError(err).WithField("offer_id", offer.ID).Warn("failed to record offer access")
	}

	totals, err := Totals(offer)
	if err != nil {
		return nil, fmt.Errorf("failed to price offer: %w", err)
	}

	view := dto.ToPublicOfferDTO(*offer, totals, AmountInWords(totals.GrandTotal, offer.Currency), offer.IsExpired(now), s.logoURL(ctx, offer))
	return &view, nil
}

func (s *PublicService) logoURL(ctx context.Context, offer *models.Offer) string {
	if s.store == nil || offer.CorporateEntity == nil || offer.CorporateEntity.LogoKey == "" {
		return ""
	}
	url, err := s.store.URL(ctx, offer.CorporateEntity.LogoKey, logoURLExpiry)
	if err != nil {
		logrus.WithError(err).WithField("key", offer.CorporateEntity.LogoKey).Warn("failed to sign logo url")
		return ""
	}
	return url
}

// Accept records the client's acceptance of a sent offer.
func (s *PublicService) Accept(token string, input AcceptInput, ip string) (*models.OfferAcceptance, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return nil, ErrAcceptanceName
	}
	if err := s.validate.Var(input.Email, "required,email"); err != nil {
		return nil, ErrAcceptanceEmail
	}

	offer, err := s.findOffer(token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case offer.Status == models.OfferStatusAccepted || offer.Status == models.OfferStatusRejected:
		return nil, ErrOfferAlreadyDecided
	case offer.IsExpired(now):
		return nil, ErrOfferExpired
	case offer.Status != models.OfferStatusSent:
		return nil, ErrOfferNotOpen
	}

	acceptance := &models.OfferAcceptance{
		Name:       input.Name,
		Email:      input.Email,
		Comment:    strings.TrimSpace(input.Comment),
		IPAddress:  ip,
		AcceptedAt: now,
	}
	if err := s.offerRepo.Accept(offer.ID, acceptance); err != nil {
		if errors.Is(err, repository.ErrOfferNotAcceptable) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOfferAlreadyDecided
		}
		return nil, fmt.Errorf("failed to accept offer: %w", err)
	}
	return acceptance, nil
}

// ViewProject renders the public project page.
func (s *PublicService) ViewProject(token string) (*dto.PublicProjectDTO, error) {
	if !utils.IsPublicToken(token) {
		return nil, ErrProjectNotFound
	}
	project, err := s.projectRepo.FindByPublicToken(token)
	if err != nil {
		return nil, findError(err, ErrProjectNotFound, "project")
	}
	view := dto.ToPublicProjectDTO(*project)
	return &view, nil
}

// AmountInWords spells out a whole amount followed by its currency code.
func AmountInWords(amount decimal.Decimal, currency string) string {
	n := amount.Round(0).IntPart()
	words := num2words.Convert(int(n))
	return fmt.Sprintf("%s %s", words, currency)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
