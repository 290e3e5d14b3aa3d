package services

import (
	"errors"
	"strings"

	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
)

var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrInvalidOrganizationName = errors.New("organization name cannot be empty")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// OrganizationInput carries the writable organization fields. Nil fields are left unchanged.
type OrganizationInput struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Website   *string `json:"website"`
	Address   *string `json:"address"`
	VATNumber *string `json:"vat_number"`
	Notes     *string `json:"notes"`
}

func (in OrganizationInput) apply(org *models.Organization) {
	setString(&org.Name, in.Name)
	setString(&org.Email, in.Email)
	setString(&org.Phone, in.Phone)
	setString(&org.Website, in.Website)
	setString(&org.Address, in.Address)
	setString(&org.VATNumber, in.VATNumber)
	setString(&org.Notes, in.Notes)
}

// List returns every organization.
func (s *OrganizationService) List() ([]models.Organization, error) {
	orgs, err := s.orgRepo.List()
	if err != nil {
		return nil, findError(err, ErrOrganizationNotFound, "organizations")
	}
	return orgs, nil
}

// Get returns an organization with its contacts, projects and offers.
func (s *OrganizationService) Get(id uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(id, "Contacts", "Projects", "Offers")
	if err != nil {
		return nil, findError(err, ErrOrganizationNotFound, "organization")
	}
	return org, nil
}

// Create creates a new organization.
func (s *OrganizationService) Create(input OrganizationInput) (*models.Organization, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	org := &models.Organization{}
	input.apply(org)

	if err := s.orgRepo.Create(org); err != nil {
		return nil, writeError(err, "organization")
	}
	return org, nil
}

// Update applies the supplied fields to an organization.
func (s *OrganizationService) Update(id uint64, input OrganizationInput) (*models.Organization, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	org, err := s.orgRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrOrganizationNotFound, "organization")
	}

	input.apply(org)
	if err := s.orgRepo.Update(org); err != nil {
		return nil, writeError(err, "organization")
	}
	return org, nil
}

// Delete removes an organization that nothing references anymore.
func (s *OrganizationService) Delete(id uint64) error {
	if _, err := s.orgRepo.FindByID(id); err != nil {
		return findError(err, ErrOrganizationNotFound, "organization")
	}
	if err := s.orgRepo.Delete(id); err != nil {
		return deleteError(err, "organization")
	}
	return nil
}
