package services

import (
	"errors"
	"strings"

	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
)

var (
	ErrContactNotFound      = errors.New("contact not found")
	ErrInvalidContactName   = errors.New("contact first name cannot be empty")
	ErrContactOrgIDRequired = errors.New("contact organization is required")
)

type ContactService struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

type ContactInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Position       *string `json:"position"`
	Notes          *string `json:"notes"`
	OrganizationID *uint64 `json:"organization_id"`
}

func (in ContactInput) apply(contact *models.Contact) {
	setString(&contact.FirstName, in.FirstName)
	setString(&contact.LastName, in.LastName)
	setString(&contact.Email, in.Email)
	setString(&contact.Phone, in.Phone)
	setString(&contact.Position, in.Position)
	setString(&contact.Notes, in.Notes)
	if in.OrganizationID != nil {
		contact.OrganizationID = *in.OrganizationID
		contact.Organization = nil
	}
}

func (s *ContactService) List(organizationID *uint64) ([]models.Contact, error) {
	contacts, err := s.contactRepo.List(organizationID)
	if err != nil {
		return nil, findError(err, ErrContactNotFound, "contacts")
	}
	return contacts, nil
}

func (s *ContactService) Get(id uint64) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrContactNotFound, "contact")
	}
	return contact, nil
}

func (s *ContactService) Create(input ContactInput) (*models.Contact, error) {
	if input.FirstName == nil || strings.TrimSpace(*input.FirstName) == "" {
		return nil, ErrInvalidContactName
	}
	if input.OrganizationID == nil || *input.OrganizationID == 0 {
		return nil, ErrContactOrgIDRequired
	}

	contact := &models.Contact{}
	input.apply(contact)
	if err := s.contactRepo.Create(contact); err != nil {
		return nil, writeError(err, "contact")
	}
	return s.Get(contact.ID)
}

func (s *ContactService) Update(id uint64, input ContactInput) (*models.Contact, error) {
	if input.FirstName != nil && strings.TrimSpace(*input.FirstName) == "" {
		return nil, ErrInvalidContactName
	}
	if input.OrganizationID != nil && *input.OrganizationID == 0 {
		return nil, ErrContactOrgIDRequired
	}

	contact, err := s.contactRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrContactNotFound, "contact")
	}
	input.apply(contact)
	if err := s.contactRepo.Update(contact); err != nil {
		return nil, writeError(err, "contact")
	}
	return s.Get(id)
}

func (s *ContactService) Delete(id uint64) error {
	if _, err := s.contactRepo.FindByID(id); err != nil {
		return findError(err, ErrContactNotFound, "contact")
	}
	if err := s.contactRepo.Delete(id); err != nil {
		return deleteError(err, "contact")
	}
	return nil
}
