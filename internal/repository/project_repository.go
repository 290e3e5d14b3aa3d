package repository

import (
	"github.com/yukikurage/bizops-api/internal/models"
	"gorm.io/gorm"
)

type GormProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit("Organization").Create(project).Error
}

func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Organization").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByPublicToken finds a project by the token used in its public link
func (r *GormProjectRepository) FindByPublicToken(token string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Organization").Where("public_token = ?", token).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) List(organizationID *uint64) ([]models.Project, error) {
	var projects []models.Project
	query := r.db.Preload("Organization").Order("created_at DESC")
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit("Organization").Save(project).Error
}

func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Project{}, id).Error
}
