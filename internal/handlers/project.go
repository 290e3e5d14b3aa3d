package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	form           *forms.Form
}

func NewProjectHandler(projectService *services.ProjectService, registry *forms.Registry) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		form:           mustForm(registry, forms.EntityProject),
	}
}

// ListProjects returns projects, optionally of one organization_id
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	orgID, ok := optionalQueryID(c, "organization_id")
	if !ok {
		return
	}
	projects, err := h.projectService.List(orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondTable(c, "projects", projectTable, projects)
}

// ExportProjects downloads the filtered projects as a spreadsheet
func (h *ProjectHandler) ExportProjects(c *gin.Context) {
	orgID, ok := optionalQueryID(c, "organization_id")
	if !ok {
		return
	}
	projects, err := h.projectService.List(orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondExport(c, "projects", projectTable, projects)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(id)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var input services.ProjectInput
	if _, ok := bindForm(c, h.form, false, &input); !ok {
		return
	}

	project, err := h.projectService.Create(input)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.ProjectInput
	if _, ok := bindForm(c, h.form, true, &input); !ok {
		return
	}

	project, err := h.projectService.Update(id, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(id); err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// RotateToken issues a new public link, invalidating the old one
func (h *ProjectHandler) RotateToken(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.RotateToken(id)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case isAny(err,
		services.ErrInvalidProjectName,
		services.ErrInvalidProjectStatus,
		services.ErrProjectOrgIDRequired,
		services.ErrProjectDateRange,
		services.ErrNegativeBudget):
		apierrors.BadRequest(c, err.Error())
	default:
		respondError(c, err)
	}
}
