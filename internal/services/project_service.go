package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/utils"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrInvalidProjectName   = errors.New("project name cannot be empty")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrProjectOrgIDRequired = errors.New("project organization is required")
	ErrProjectDateRange     = errors.New("project end date is before its start date")
	ErrNegativeBudget       = errors.New("project budget cannot be negative")
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

type ProjectInput struct {
	Name           *string               `json:"name"`
	Description    *string               `json:"description"`
	Status         *models.ProjectStatus `json:"status"`
	StartDate      *string               `json:"start_date"`
	EndDate        *string               `json:"end_date"`
	Budget         *decimal.Decimal      `json:"budget"`
	OrganizationID *uint64               `json:"organization_id"`
}

func (in ProjectInput) apply(project *models.Project) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ErrInvalidProjectName
	}
	if in.Status != nil && !in.Status.Valid() {
		return ErrInvalidProjectStatus
	}
	if in.OrganizationID != nil && *in.OrganizationID == 0 {
		return ErrProjectOrgIDRequired
	}
	if in.Budget != nil && in.Budget.IsNegative() {
		return ErrNegativeBudget
	}

	setString(&project.Name, in.Name)
	setString(&project.Description, in.Description)
	if in.Status != nil {
		project.Status = *in.Status
	}
	if in.StartDate != nil {
		d, err := parseDate(*in.StartDate)
		if err != nil {
			return err
		}
		project.StartDate = d
	}
	if in.EndDate != nil {
		d, err := parseDate(*in.EndDate)
		if err != nil {
			return err
		}
		project.EndDate = d
	}
	if in.Budget != nil {
		project.Budget = decimal.NewNullDecimal(*in.Budget)
	}
	if in.OrganizationID != nil {
		project.OrganizationID = *in.OrganizationID
		project.Organization = nil
	}

	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return ErrProjectDateRange
	}
	return nil
}

func (s *ProjectService) List(organizationID *uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.List(organizationID)
	if err != nil {
		return nil, findError(err, ErrProjectNotFound, "projects")
	}
	return projects, nil
}

func (s *ProjectService) Get(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrProjectNotFound, "project")
	}
	return project, nil
}

// Create creates a project with a fresh public token.
func (s *ProjectService) Create(input ProjectInput) (*models.Project, error) {
	if input.Name == nil {
		return nil, ErrInvalidProjectName
	}
	if input.OrganizationID == nil {
		return nil, ErrProjectOrgIDRequired
	}

	project := &models.Project{
		Status:      models.ProjectStatusPlanned,
		PublicToken: utils.GeneratePublicToken(),
	}
	if err := input.apply(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, writeError(err, "project")
	}
	return s.Get(project.ID)
}

func (s *ProjectService) Update(id uint64, input ProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrProjectNotFound, "project")
	}
	if err := input.apply(project); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Update(project); err != nil {
		return nil, writeError(err, "project")
	}
	return s.Get(id)
}

func (s *ProjectService) Delete(id uint64) error {
	if _, err := s.projectRepo.FindByID(id); err != nil {
		return findError(err, ErrProjectNotFound, "project")
	}
	if err := s.projectRepo.Delete(id); err != nil {
		return deleteError(err, "project")
	}
	return nil
}

// RotateToken issues a new public token, invalidating previously shared links.
func (s *ProjectService) RotateToken(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrProjectNotFound, "project")
	}
	project.PublicToken = utils.GeneratePublicToken()
	if err := s.projectRepo.Update(project); err != nil {
		return nil, writeError(err, "project")
	}
	return project, nil
}
