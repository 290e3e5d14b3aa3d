package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
	form       *forms.Form
}

func NewOrganizationHandler(orgService *services.OrganizationService, registry *forms.Registry) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
		form:       mustForm(registry, forms.EntityOrganization),
	}
}

// ListOrganizations returns organizations matching the table query
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondTable(c, "organizations", organizationTable, orgs)
}

// ExportOrganizations downloads the filtered organizations as a spreadsheet
func (h *OrganizationHandler) ExportOrganizations(c *gin.Context) {
	orgs, err := h.orgService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondExport(c, "organizations", organizationTable, orgs)
}

// GetOrganization returns an organization with its contacts, projects and offers
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	org, err := h.orgService.Get(id)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

// CreateOrganization creates a new organization
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var input services.OrganizationInput
	if _, ok := bindForm(c, h.form, false, &input); !ok {
		return
	}

	org, err := h.orgService.Create(input)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

// UpdateOrganization updates the fields present in the body
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.OrganizationInput
	if _, ok := bindForm(c, h.form, true, &input); !ok {
		return
	}

	org, err := h.orgService.Update(id, input)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

// DeleteOrganization deletes an organization without related records
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orgService.Delete(id); err != nil {
		respondOrganizationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Organization deleted successfully"})
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case isAny(err, services.ErrInvalidOrganizationName):
		apierrors.BadRequest(c, err.Error())
	default:
		respondError(c, err)
	}
}
