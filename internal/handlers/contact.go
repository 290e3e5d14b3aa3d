package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/services"
)

type ContactHandler struct {
	contactService *services.ContactService
	form           *forms.Form
}

func NewContactHandler(contactService *services.ContactService, registry *forms.Registry) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		form:           mustForm(registry, forms.EntityContact),
	}
}

// ListContacts returns contacts, optionally of one organization_id
func (h *ContactHandler) ListContacts(c *gin.Context) {
	orgID, ok := optionalQueryID(c, "organization_id")
	if !ok {
		return
	}
	contacts, err := h.contactService.List(orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondTable(c, "contacts", contactTable, contacts)
}

// ExportContacts downloads the filtered contacts as a spreadsheet
func (h *ContactHandler) ExportContacts(c *gin.Context) {
	orgID, ok := optionalQueryID(c, "organization_id")
	if !ok {
		return
	}
	contacts, err := h.contactService.List(orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondExport(c, "contacts", contactTable, contacts)
}

func (h *ContactHandler) GetContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.Get(id)
	if err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var input services.ContactInput
	if _, ok := bindForm(c, h.form, false, &input); !ok {
		return
	}

	contact, err := h.contactService.Create(input)
	if err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.ContactInput
	if _, ok := bindForm(c, h.form, true, &input); !ok {
		return
	}

	contact, err := h.contactService.Update(id, input)
	if err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(id); err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

func respondContactError(c *gin.Context, err error) {
	switch {
	case isAny(err, services.ErrInvalidContactName, services.ErrContactOrgIDRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		respondError(c, err)
	}
}
