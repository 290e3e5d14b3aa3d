package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bizops-api/internal/datatable"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/services"
)

// LookupHandler serves CRUD for one reference table. Bodies are validated
// by the entity form and only its normalized values are stored.
type LookupHandler[T services.Lookup] struct {
	service *services.LookupService[T]
	form    *forms.Form
	table   *datatable.Table[T]
	key     string
}

func newLookupHandler[T services.Lookup](service *services.LookupService[T], form *forms.Form, table *datatable.Table[T], key string) *LookupHandler[T] {
	return &LookupHandler[T]{service: service, form: form, table: table, key: key}
}

func NewCorporateEntityHandler(service *services.LookupService[models.CorporateEntity], registry *forms.Registry) *LookupHandler[models.CorporateEntity] {
	return newLookupHandler(service, mustForm(registry, forms.EntityCorporateEntity), corporateEntityTable, "corporate_entities")
}

func NewPaymentTermHandler(service *services.LookupService[models.PaymentTerm], registry *forms.Registry) *LookupHandler[models.PaymentTerm] {
	return newLookupHandler(service, mustForm(registry, forms.EntityPaymentTerm), paymentTermTable, "payment_terms")
}

func NewDeliveryConditionHandler(service *services.LookupService[models.DeliveryCondition], registry *forms.Registry) *LookupHandler[models.DeliveryCondition] {
	return newLookupHandler(service, mustForm(registry, forms.EntityDeliveryCondition), deliveryConditionTable, "delivery_conditions")
}

func NewLinkPresetHandler(service *services.LookupService[models.OfferLinkPreset], registry *forms.Registry) *LookupHandler[models.OfferLinkPreset] {
	return newLookupHandler(service, mustForm(registry, forms.EntityLinkPreset), linkPresetTable, "link_presets")
}

func (h *LookupHandler[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondTable(c, h.key, h.table, items)
}

func (h *LookupHandler[T]) Export(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondExport(c, h.key, h.table, items)
}

func (h *LookupHandler[T]) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LookupHandler[T]) Create(c *gin.Context) {
	values, ok := bindForm(c, h.form, false, nil)
	if !ok {
		return
	}

	item, err := h.service.Create(c.Request.Context(), h.form.WithZeroes(values))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *LookupHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	values, ok := bindForm(c, h.form, true, nil)
	if !ok {
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, h.form.WithZeroes(values))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LookupHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// Register mounts the handler under group; deletes go through admin.
func (h *LookupHandler[T]) Register(group *gin.RouterGroup, admin gin.HandlerFunc) {
	group.GET("", h.List)
	group.GET("/export", h.Export)
	group.GET("/:id", h.Get)
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", admin, h.Delete)
}
