package repository

import (
	"github.com/yukikurage/bizops-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByID finds an organization by ID with optional preloading
func (r *GormOrganizationRepository) FindByID(id uint64, preload ...string) (*models.Organization, error) {
	var org models.Organization
	query := r.db

	for _, p := range preload {
		if p == "Offers" {
			query = query.Preload(p, func(db *gorm.DB) *gorm.DB {
				return db.Order("offers.created_at DESC")
			})
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns every organization ordered by name
func (r *GormOrganizationRepository) List() ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Omit("Contacts", "Projects", "Offers").Save(org).Error
}

// Delete deletes an organization. Related contacts, projects and offers are
// never removed implicitly; the foreign keys make the delete fail instead.
func (r *GormOrganizationRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Organization{}, id).Error
}
