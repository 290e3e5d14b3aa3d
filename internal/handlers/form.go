package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/logging"
)

// FormHandler exposes form descriptors so clients can render them.
type FormHandler struct {
	registry *forms.Registry
	resolver forms.OptionResolver
}

func NewFormHandler(registry *forms.Registry, resolver forms.OptionResolver) *FormHandler {
	return &FormHandler{registry: registry, resolver: resolver}
}

func (h *FormHandler) ListForms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"forms": h.registry.Entities()})
}

// GetForm returns the descriptor with relation options filled in
func (h *FormHandler) GetForm(c *gin.Context) {
	entity := c.Param("entity")
	if _, ok := h.registry.Get(entity); !ok {
		apierrors.NotFound(c, "Form not found")
		return
	}

	form, err := h.registry.Resolve(c.Request.Context(), entity, h.resolver)
	if err != nil {
		logging.FromContext(c).WithError(err).Error("failed to resolve form options")
		apierrors.InternalError(c, "Failed to load form options")
		return
	}
	c.JSON(http.StatusOK, form)
}

// ValidateForm checks a submission without storing it
func (h *FormHandler) ValidateForm(c *gin.Context) {
	form, ok := h.registry.Get(c.Param("entity"))
	if !ok {
		apierrors.NotFound(c, "Form not found")
		return
	}

	values, ok := bindForm(c, form, c.Query("partial") == "true", nil)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "values": values})
}
