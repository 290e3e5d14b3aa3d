package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/bizops-api/internal/datatable"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/export"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/logging"
	"github.com/yukikurage/bizops-api/internal/services"
)

// parseID reads a positive numeric path parameter, answering 400 otherwise.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// optionalQueryID reads an optional numeric query parameter.
func optionalQueryID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// bindForm validates the JSON body against the form and then binds it into
// dst when dst is not nil. Updates validate only the keys they send.
func bindForm(c *gin.Context, form *forms.Form, partial bool, dst any) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}

	validate := form.Validate
	if partial {
		validate = form.ValidatePartial
	}
	values, err := validate(raw)
	if err != nil {
		var fieldErrs forms.FieldErrors
		if errors.As(err, &fieldErrs) {
			apierrors.ValidationFailed(c, fieldErrs)
		} else {
			apierrors.BadRequest(c, err.Error())
		}
		return nil, false
	}

	if dst != nil {
		if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return nil, false
		}
	}
	return values, true
}

// mustForm returns a registered form; a missing one is a programming error.
func mustForm(registry *forms.Registry, entity string) *forms.Form {
	form, ok := registry.Get(entity)
	if !ok {
		panic("form not registered: " + entity)
	}
	return form
}

// respondTable filters, searches and sorts records from the query string and
// answers every matching row under key. Lists are not paginated.
func respondTable[T any](c *gin.Context, key string, table *datatable.Table[T], records []T) {
	rows, ok := applyTable(c, table, records)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		key:     rows,
		"total": len(rows),
	})
}

// respondExport streams every matching record as an xlsx download.
func respondExport[T any](c *gin.Context, entity string, table *datatable.Table[T], records []T) {
	rows, ok := applyTable(c, table, records)
	if !ok {
		return
	}

	headers, cells := table.Rows(rows)
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(entity, time.Now())+`"`)
	c.Header("Content-Type", export.ContentTypeXLSX)
	c.Status(http.StatusOK)
	if err := export.WriteXLSX(c.Writer, entity, headers, cells); err != nil {
		// headers are already sent
		logging.FromContext(c).WithError(err).Error("failed to write export")
	}
}

func applyTable[T any](c *gin.Context, table *datatable.Table[T], records []T) ([]T, bool) {
	query, err := datatable.ParseQuery(c.Request.URL.Query())
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return nil, false
	}
	rows, err := table.Apply(records, query)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return nil, false
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, true
}

// respondError answers errors shared by every entity endpoint.
func respondError(c *gin.Context, err error) {
	var fieldErrs forms.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		apierrors.ValidationFailed(c, fieldErrs)
	case errors.Is(err, services.ErrHasRelatedRecords):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidReference),
		errors.Is(err, services.ErrInvalidDate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrContactNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrServiceNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrLookupNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable),
		errors.Is(err, services.ErrAIUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		logging.FromContext(c).WithError(err).Error("request failed")
		apierrors.InternalError(c, "")
	}
}

// isAny reports whether err matches one of targets.
func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
