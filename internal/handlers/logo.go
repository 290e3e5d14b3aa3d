package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bizops-api/internal/constants"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/services"
	"github.com/yukikurage/bizops-api/internal/storage"
)

// LogoHandler uploads and links corporate entity logos.
type LogoHandler struct {
	logoService *services.LogoService
}

func NewLogoHandler(logoService *services.LogoService) *LogoHandler {
	return &LogoHandler{logoService: logoService}
}

// UploadLogo stores the multipart "logo" file for a corporate entity
func (h *LogoHandler) UploadLogo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxLogoSizeBytes+1<<20)
	header, err := c.FormFile("logo")
	if err != nil {
		apierrors.BadRequest(c, "A logo file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	entity, err := h.logoService.Upload(c.Request.Context(), id, header.Filename, file, header.Size)
	if err != nil {
		respondLogoError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// GetLogoURL returns a temporary download link for the logo
func (h *LogoHandler) GetLogoURL(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.logoService.URL(c.Request.Context(), id)
	if err != nil {
		respondLogoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func respondLogoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLogoTooLarge), errors.Is(err, storage.ErrUnsupportedType):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNoLogo):
		apierrors.NotFound(c, err.Error())
	default:
		respondError(c, err)
	}
}
