package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/services"
)

// ServiceHandler serves the service catalog.
type ServiceHandler struct {
	catalog *services.CatalogService
	form    *forms.Form
}

func NewServiceHandler(catalog *services.CatalogService, registry *forms.Registry) *ServiceHandler {
	return &ServiceHandler{
		catalog: catalog,
		form:    mustForm(registry, forms.EntityService),
	}
}

func (h *ServiceHandler) ListServices(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondTable(c, "services", serviceTable, items)
}

func (h *ServiceHandler) ExportServices(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondExport(c, "services", serviceTable, items)
}

func (h *ServiceHandler) GetService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	svc, err := h.catalog.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) CreateService(c *gin.Context) {
	var input services.ServiceInput
	if _, ok := bindForm(c, h.form, false, &input); !ok {
		return
	}

	svc, err := h.catalog.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.ServiceInput
	if _, ok := bindForm(c, h.form, true, &input); !ok {
		return
	}

	svc, err := h.catalog.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case isAny(err,
		services.ErrInvalidServiceName,
		services.ErrInvalidServicePrice,
		services.ErrInvalidServiceGroup,
		services.ErrInvalidRecurringInterval):
		apierrors.BadRequest(c, err.Error())
	default:
		respondError(c, err)
	}
}
