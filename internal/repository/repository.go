package repository

import (
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/utils"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Organization, error)

	// List returns every organization ordered by name
	List() ([]models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization; fails while contacts, projects or offers reference it
	Delete(id uint64) error
}

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(contact *models.Contact) error
	FindByID(id uint64) (*models.Contact, error)
	// List returns contacts, restricted to one organization when organizationID is set
	List(organizationID *uint64) ([]models.Contact, error)
	Update(contact *models.Contact) error
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uint64) (*models.Project, error)
	FindByPublicToken(token string) (*models.Project, error)
	List(organizationID *uint64) ([]models.Project, error)
	Update(project *models.Project) error
	Delete(id uint64) error
}

// ServiceRepository defines the interface for service catalog data access
type ServiceRepository interface {
	Create(service *models.Service) error
	FindByID(id uint64) (*models.Service, error)
	FindByIDs(ids []uint64) ([]models.Service, error)
	List() ([]models.Service, error)
	Update(service *models.Service) error
	Delete(id uint64) error
}

// LookupRepository is the data access shared by the small reference tables
// (corporate entities, payment terms, delivery conditions, link presets).
type LookupRepository[T any] interface {
	Create(item *T) error
	FindByID(id uint64) (*T, error)
	FindByIDs(ids []uint64) ([]T, error)
	List() ([]T, error)
	Update(item *T) error
	Delete(id uint64) error
}

// OfferRepository defines the interface for offer data access
type OfferRepository interface {
	// Create inserts an offer together with its lines and selected links
	Create(offer *models.Offer) error

	// FindByID loads an offer with every relation the detail views need
	FindByID(id uint64) (*models.Offer, error)

	// FindByPublicToken loads an offer by its public token with full relations
	FindByPublicToken(token string) (*models.Offer, error)

	// List returns offers with organization and contact, newest first
	List() ([]models.Offer, error)

	// Save updates the header, replaces lines and selected links in one transaction
	Save(offer *models.Offer, lines []models.OfferService, linkPresetIDs []uint64) error

	// Accept marks a sent offer accepted and stores the acceptance record atomically
	Accept(offerID uint64, acceptance *models.OfferAcceptance) error

	// Delete deletes an offer with its lines, links, access logs and acceptance
	Delete(id uint64) error

	// LogAccess records a visit to the public offer page
	LogAccess(log *models.OfferAccessLog) error

	// ListAccessLogs returns visits of an offer, newest first
	ListAccessLogs(offerID uint64, params utils.PaginationParams) ([]models.OfferAccessLog, int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Register creates a user; the first user ever created becomes admin
	Register(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns every user ordered by username
	List() ([]models.User, error)

	// UpdateRole changes the role of a user
	UpdateRole(id uint64, role models.UserRole) error

	// CountByRole counts users having the role
	CountByRole(role models.UserRole) (int64, error)
}
