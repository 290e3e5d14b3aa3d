package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/middleware"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/pricing"
	"github.com/yukikurage/bizops-api/internal/services"
	"github.com/yukikurage/bizops-api/internal/utils"
)

type OfferHandler struct {
	offerService *services.OfferService
	form         *forms.Form
	lineForm     *forms.Form
}

func NewOfferHandler(offerService *services.OfferService, registry *forms.Registry) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
		form:         mustForm(registry, forms.EntityOffer),
		lineForm:     mustForm(registry, forms.EntityOfferLine),
	}
}

// offerResponse is an offer together with its computed totals
type offerResponse struct {
	*models.Offer
	Totals pricing.Totals `json:"totals"`
}

func (h *OfferHandler) respondOffer(c *gin.Context, status int, offer *models.Offer) {
	totals, err := services.Totals(offer)
	if err != nil {
		respondOfferError(c, err)
		return
	}
	c.JSON(status, offerResponse{Offer: offer, Totals: totals})
}

// ListOffers returns offers matching the table query
func (h *OfferHandler) ListOffers(c *gin.Context) {
	offers, err := h.offerService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondTable(c, "offers", offerTable, offers)
}

// ExportOffers downloads the filtered offers as a spreadsheet
func (h *OfferHandler) ExportOffers(c *gin.Context) {
	offers, err := h.offerService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondExport(c, "offers", offerTable, offers)
}

// GetOffer returns an offer with lines, links and totals
func (h *OfferHandler) GetOffer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.Get(id)
	if err != nil {
		respondOfferError(c, err)
		return
	}
	h.respondOffer(c, http.StatusOK, offer)
}

// CreateOffer creates an offer with its lines
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var input services.OfferInput
	if _, ok := bindForm(c, h.form, false, &input); !ok {
		return
	}
	if !h.validateLines(c) {
		return
	}

	offer, err := h.offerService.Create(userID, input)
	if err != nil {
		respondOfferError(c, err)
		return
	}
	h.respondOffer(c, http.StatusCreated, offer)
}

// UpdateOffer updates the header and, when sent, replaces lines and links
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.OfferInput
	if _, ok := bindForm(c, h.form, true, &input); !ok {
		return
	}
	if !h.validateLines(c) {
		return
	}

	offer, err := h.offerService.Update(id, input)
	if err != nil {
		respondOfferError(c, err)
		return
	}
	h.respondOffer(c, http.StatusOK, offer)
}

// DeleteOffer deletes an offer with its lines, links and access logs
func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.offerService.Delete(id); err != nil {
		respondOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted successfully"})
}

// CalculateOffer previews totals for an unsaved offer
func (h *OfferHandler) CalculateOffer(c *gin.Context) {
	var input services.CalculateInput
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !h.validateLines(c) {
		return
	}

	totals, err := h.offerService.Calculate(input)
	if err != nil {
		respondOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// DuplicateOffer copies an offer into a new draft
func (h *OfferHandler) DuplicateOffer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.Duplicate(id, userID)
	if err != nil {
		respondOfferError(c, err)
		return
	}
	h.respondOffer(c, http.StatusCreated, offer)
}

// ListAccessLogs returns the paginated visits of the public offer page
func (h *OfferHandler) ListAccessLogs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	logs, total, err := h.offerService.AccessLogs(id, params)
	if err != nil {
		respondOfferError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_logs": logs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// DraftIntroduction suggests an introduction text for the offer
func (h *OfferHandler) DraftIntroduction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	text, err := h.offerService.DraftIntroduction(c.Request.Context(), id)
	if err != nil {
		respondOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"introduction": text})
}

// validateLines checks every submitted line against the offer line form.
// Errors are keyed as lines[i].field.
func (h *OfferHandler) validateLines(c *gin.Context) bool {
	var body struct {
		Lines []map[string]any `json:"lines"`
	}
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}

	errs := forms.FieldErrors{}
	for i, line := range body.Lines {
		if _, err := h.lineForm.Validate(line); err != nil {
			var fieldErrs forms.FieldErrors
			if !errors.As(err, &fieldErrs) {
				apierrors.BadRequest(c, err.Error())
				return false
			}
			for name, msg := range fieldErrs {
				errs[fmt.Sprintf("lines[%d].%s", i, name)] = msg
			}
		}
	}
	if len(errs) > 0 {
		apierrors.ValidationFailed(c, errs)
		return false
	}
	return true
}

func respondOfferError(c *gin.Context, err error) {
	switch {
	case isAny(err,
		services.ErrInvalidOfferTitle,
		services.ErrOfferOrgIDRequired,
		services.ErrInvalidOfferStatus,
		services.ErrInvalidDiscountMode,
		services.ErrInvalidCurrency,
		services.ErrLineServiceRequired,
		services.ErrCustomLineTitle,
		services.ErrCustomLinePrice,
		services.ErrLinkPresetNotFound,
		pricing.ErrInvalidQuantity,
		pricing.ErrNegativePrice,
		pricing.ErrInvalidDiscount,
		pricing.ErrNegativeTax,
		pricing.ErrUnknownMode):
		apierrors.BadRequest(c, err.Error())
	case isAny(err, services.ErrServiceNotFound):
		// a line pointing at a missing service, the offer itself exists
		apierrors.BadRequest(c, err.Error())
	default:
		respondError(c, err)
	}
}
