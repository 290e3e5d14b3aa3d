package repository

import (
	"github.com/yukikurage/bizops-api/internal/models"
	"gorm.io/gorm"
)

type GormContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) Create(contact *models.Contact) error {
	return r.db.Omit("Organization").Create(contact).Error
}

func (r *GormContactRepository) FindByID(id uint64) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.Preload("Organization").First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *GormContactRepository) List(organizationID *uint64) ([]models.Contact, error) {
	var contacts []models.Contact
	query := r.db.Preload("Organization").Order("last_name ASC, first_name ASC")
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}
	if err := query.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *GormContactRepository) Update(contact *models.Contact) error {
	return r.db.Omit("Organization").Save(contact).Error
}

func (r *GormContactRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Contact{}, id).Error
}
