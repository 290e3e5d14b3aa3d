package repository

import (
	"github.com/yukikurage/bizops-api/internal/models"
	"gorm.io/gorm"
)

type GormServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}

func (r *GormServiceRepository) FindByID(id uint64) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// FindByIDs returns the services among ids that exist
func (r *GormServiceRepository) FindByIDs(ids []uint64) ([]models.Service, error) {
	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// List returns the whole catalog grouped by group type
func (r *GormServiceRepository) List() ([]models.Service, error) {
	var services []models.Service
	if err := r.db.Order("group_type ASC, name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *GormServiceRepository) Update(service *models.Service) error {
	return r.db.Save(service).Error
}

func (r *GormServiceRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Service{}, id).Error
}
