package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/services"
)

// PublicHandler serves the pages clients open through a shared link.
type PublicHandler struct {
	publicService *services.PublicService
}

func NewPublicHandler(publicService *services.PublicService) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

// GetOffer renders an offer for its client and records the visit
func (h *PublicHandler) GetOffer(c *gin.Context) {
	view, err := h.publicService.ViewOffer(c.Request.Context(), c.Param("token"), services.Visit{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	})
	if err != nil {
		respondPublicError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AcceptOffer records the client's acceptance
func (h *PublicHandler) AcceptOffer(c *gin.Context) {
	var input services.AcceptInput
	if err := c.ShouldBindWith(&input, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	acceptance, err := h.publicService.Accept(c.Param("token"), input, c.ClientIP())
	if err != nil {
		respondPublicError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Offer accepted",
		"accepted_at": acceptance.AcceptedAt,
	})
}

// GetProject renders a project for its client
func (h *PublicHandler) GetProject(c *gin.Context) {
	view, err := h.publicService.ViewProject(c.Param("token"))
	if err != nil {
		respondPublicError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func respondPublicError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOfferNotFound), errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOfferAlreadyDecided), errors.Is(err, services.ErrOfferNotOpen):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrOfferExpired):
		apierrors.Gone(c, err.Error())
	case errors.Is(err, services.ErrAcceptanceName), errors.Is(err, services.ErrAcceptanceEmail):
		apierrors.BadRequest(c, err.Error())
	default:
		respondError(c, err)
	}
}
