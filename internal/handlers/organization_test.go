package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bizops-api/internal/constants"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/services"
	"github.com/yukikurage/bizops-api/internal/testutil"
	"gorm.io/gorm"
)

type organizationTestEnv struct {
	db         *gorm.DB
	handler    *OrganizationHandler
	orgService *services.OrganizationService
}

func setupOrganizationTestEnv(t *testing.T) organizationTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)

	orgRepo := repository.NewOrganizationRepository(db)
	orgService := services.NewOrganizationService(orgRepo)
	handler := NewOrganizationHandler(orgService, forms.Default())

	return organizationTestEnv{
		db:         db,
		handler:    handler,
		orgService: orgService,
	}
}

// testContext builds a gin context for calling a handler directly.
func testContext(method, url string, body []byte, userID uint64, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}

func idParam(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func createTestOrganization(t *testing.T, svc *services.OrganizationService, name, email string) *models.Organization {
	t.Helper()
	org, err := svc.Create(services.OrganizationInput{Name: &name, Email: &email})
	require.NoError(t, err)
	return org
}

func TestOrganizationHandler_CreateOrganization(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	body := mustJSON(t, map[string]any{
		"name":    "Acme GmbH",
		"email":   "office@acme.test",
		"website": "https://acme.test",
	})
	c, w := testContext(http.MethodPost, "/api/organizations", body, 1)

	env.handler.CreateOrganization(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response models.Organization
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Acme GmbH", response.Name)
	require.NotZero(t, response.ID)
}

func TestOrganizationHandler_CreateOrganization_ValidationFailed(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	body := mustJSON(t, map[string]any{
		"email":   "not-an-email",
		"website": "acme",
	})
	c, w := testContext(http.MethodPost, "/api/organizations", body, 1)

	env.handler.CreateOrganization(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, apierrors.ErrCodeValidationFailed, response.Code)
	require.Contains(t, response.Details, "name")
	require.Contains(t, response.Details, "email")
	require.Contains(t, response.Details, "website")
}

func TestOrganizationHandler_ListOrganizations(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	createTestOrganization(t, env.orgService, "Acme GmbH", "office@acme.test")
	createTestOrganization(t, env.orgService, "Globex", "")
	createTestOrganization(t, env.orgService, "Initech", "hello@initech.test")

	tests := []struct {
		name     string
		url      string
		expected []string
		total    int64
	}{
		{"all sorted by name", "/api/organizations?sort=name", []string{"Acme GmbH", "Globex", "Initech"}, 3},
		{"search", "/api/organizations?search=init", []string{"Initech"}, 1},
		{"filter empty email", "/api/organizations?filter=email:is_empty", []string{"Globex"}, 1},
		{"descending", "/api/organizations?sort=name&direction=desc", []string{"Initech", "Globex", "Acme GmbH"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodGet, tt.url, nil, 1)

			env.handler.ListOrganizations(c)

			require.Equal(t, http.StatusOK, w.Code)

			var response struct {
				Organizations []models.Organization `json:"organizations"`
				Total         int64                 `json:"total"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			names := make([]string, len(response.Organizations))
			for i, org := range response.Organizations {
				names[i] = org.Name
			}
			require.Equal(t, tt.expected, names)
			require.Equal(t, tt.total, response.Total)
		})
	}
}

func TestOrganizationHandler_ListOrganizations_InvalidFilter(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	c, w := testContext(http.MethodGet, "/api/organizations?filter=name:like:acme", nil, 1)

	env.handler.ListOrganizations(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrganizationHandler_ExportOrganizations(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	createTestOrganization(t, env.orgService, "Acme GmbH", "office@acme.test")

	c, w := testContext(http.MethodGet, "/api/organizations/export", nil, 1)

	env.handler.ExportOrganizations(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	require.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx files are zip archives
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestOrganizationHandler_UpdateOrganization(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createTestOrganization(t, env.orgService, "Acme GmbH", "office@acme.test")

	body := mustJSON(t, map[string]any{"phone": "+49 30 1234"})
	c, w := testContext(http.MethodPut, "/api/organizations/1", body, 1, gin.Param{Key: "id", Value: "1"})

	env.handler.UpdateOrganization(c)

	require.Equal(t, http.StatusOK, w.Code)

	updated, err := env.orgService.Get(org.ID)
	require.NoError(t, err)
	require.Equal(t, "+49 30 1234", updated.Phone)
	require.Equal(t, "Acme GmbH", updated.Name, "fields missing from the body stay unchanged")
}

func TestOrganizationHandler_GetOrganization_NotFound(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	c, w := testContext(http.MethodGet, "/api/organizations/42", nil, 1, gin.Param{Key: "id", Value: "42"})

	env.handler.GetOrganization(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrganizationHandler_DeleteOrganization(t *testing.T) {
	env := setupOrganizationTestEnv(t)

	free := createTestOrganization(t, env.orgService, "Free", "")
	busy := createTestOrganization(t, env.orgService, "Busy", "")
	require.NoError(t, env.db.Create(&models.Contact{FirstName: "Jane", OrganizationID: busy.ID}).Error)

	tests := []struct {
		name     string
		id       string
		expected int
	}{
		{"without related records", idParam(free.ID), http.StatusOK},
		{"with contacts", idParam(busy.ID), http.StatusConflict},
		{"unknown", "999", http.StatusNotFound},
		{"invalid id", "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodDelete, "/api/organizations/"+tt.id, nil, 1, gin.Param{Key: "id", Value: tt.id})

			env.handler.DeleteOrganization(c)

			require.Equal(t, tt.expected, w.Code)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Organization{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
