package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bizops-api/internal/cache"
	"github.com/yukikurage/bizops-api/internal/services"
	"github.com/yukikurage/bizops-api/internal/testutil"
)

type fixedDrafter string

func (d fixedDrafter) DraftIntroduction(context.Context, services.OfferBrief) (string, error) {
	return string(d), nil
}

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestServer(t *testing.T, rateLimit int, origins ...string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine := New(Options{
		DB:             testutil.OpenDB(t),
		Sessions:       cookie.NewStore([]byte("test-secret")),
		Cache:          cache.NewMemoryCache(),
		Drafter:        fixedDrafter("Dear client"),
		Logger:         logrus.NewEntry(logger),
		AllowedOrigins: origins,
		CacheTTL:       time.Minute,
		RateLimit:      rateLimit,
		RateWindow:     time.Minute,
	})

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, server *httptest.Server) *apiClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, server: server, http: &http.Client{Jar: jar}}
}

func (a *apiClient) do(method, path string, body any, out any) int {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *apiClient) signupAndLogin(username string) {
	a.t.Helper()
	creds := map[string]string{"username": username, "password": "supersecret"}
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/auth/signup", creds, nil))
	require.Equal(a.t, http.StatusOK, a.do(http.MethodPost, "/api/auth/login", creds, nil))
}

type idBody struct {
	ID uint64 `json:"id"`
}

func TestRouter_HealthAndAuthGate(t *testing.T) {
	server := newTestServer(t, 0)
	client := newClient(t, server)

	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/health", nil, nil))
	require.Equal(t, http.StatusUnauthorized, client.do(http.MethodGet, "/api/organizations", nil, nil))
	require.Equal(t, http.StatusUnauthorized, client.do(http.MethodGet, "/api/auth/me", nil, nil))
}

func TestRouter_CORS(t *testing.T) {
	healthFrom := func(server *httptest.Server, origin string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	// no configured origins means no CORS headers at all
	sameOrigin := newTestServer(t, 0)
	resp := healthFrom(sameOrigin, "https://app.example")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	crossOrigin := newTestServer(t, 0, "https://app.example")
	resp = healthFrom(crossOrigin, "https://app.example")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	resp = healthFrom(crossOrigin, "https://evil.example")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_OfferLifecycle(t *testing.T) {
	server := newTestServer(t, 0)
	admin := newClient(t, server)
	admin.signupAndLogin("owner")

	var org idBody
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/organizations", map[string]any{"name": "Acme GmbH"}, &org))

	var svc idBody
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/services", map[string]any{
		"name": "Hosting", "price": 100, "group_type": "hosting",
	}, &svc))

	var term idBody
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/payment-terms", map[string]any{"name": "Net 14", "days_due": 14}, &term))

	// line validation reports the index of the failing line
	var invalid struct {
		Details map[string]string `json:"details"`
	}
	require.Equal(t, http.StatusBadRequest, admin.do(http.MethodPost, "/api/offers", map[string]any{
		"title": "Hosting", "organization_id": org.ID,
		"lines": []map[string]any{{"service_id": svc.ID, "quantity": 1}, {"is_custom": true, "quantity": 0}},
	}, &invalid))
	require.Contains(t, invalid.Details, "lines[1].custom_title")
	require.Contains(t, invalid.Details, "lines[1].quantity")

	var offer struct {
		ID          uint64 `json:"id"`
		Number      string `json:"number"`
		PublicToken string `json:"public_token"`
		Status      string `json:"status"`
		Totals      struct {
			GrandTotal json.Number `json:"grand_total"`
		} `json:"totals"`
	}
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/offers", map[string]any{
		"title":           "Hosting",
		"organization_id": org.ID,
		"payment_term_id": term.ID,
		"tax_percentage":  19,
		"lines":           []map[string]any{{"service_id": svc.ID, "quantity": 3}},
	}, &offer))
	require.Equal(t, "draft", offer.Status)
	require.Equal(t, "357", offer.Totals.GrandTotal.String())

	// drafts are not visible to clients
	visitor := newClient(t, server)
	require.Equal(t, http.StatusNotFound, visitor.do(http.MethodGet, "/public/offers/"+offer.PublicToken, nil, nil))

	var draft struct {
		Introduction string `json:"introduction"`
	}
	require.Equal(t, http.StatusOK, admin.do(http.MethodPost, fmt.Sprintf("/api/offers/%d/draft-introduction", offer.ID), nil, &draft))
	require.Equal(t, "Dear client", draft.Introduction)

	require.Equal(t, http.StatusOK, admin.do(http.MethodPut, fmt.Sprintf("/api/offers/%d", offer.ID), map[string]any{"status": "sent"}, nil))

	var page struct {
		Number    string `json:"number"`
		CanAccept bool   `json:"can_accept"`
	}
	require.Equal(t, http.StatusOK, visitor.do(http.MethodGet, "/public/offers/"+offer.PublicToken, nil, &page))
	require.Equal(t, offer.Number, page.Number)
	require.True(t, page.CanAccept)

	acceptance := map[string]any{"name": "Jane Doe", "email": "jane@example.com"}
	require.Equal(t, http.StatusBadRequest, visitor.do(http.MethodPost, "/public/offers/"+offer.PublicToken+"/accept", map[string]any{"name": "Jane"}, nil))
	require.Equal(t, http.StatusCreated, visitor.do(http.MethodPost, "/public/offers/"+offer.PublicToken+"/accept", acceptance, nil))
	require.Equal(t, http.StatusConflict, visitor.do(http.MethodPost, "/public/offers/"+offer.PublicToken+"/accept", acceptance, nil))

	var logs struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, fmt.Sprintf("/api/offers/%d/access-logs", offer.ID), nil, &logs))
	require.EqualValues(t, 1, logs.Pagination.Total)

	// referenced rows cannot be removed
	require.Equal(t, http.StatusConflict, admin.do(http.MethodDelete, fmt.Sprintf("/api/organizations/%d", org.ID), nil, nil))
	require.Equal(t, http.StatusConflict, admin.do(http.MethodDelete, fmt.Sprintf("/api/payment-terms/%d", term.ID), nil, nil))

	var copyOf struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, fmt.Sprintf("/api/offers/%d/duplicate", offer.ID), nil, &copyOf))
	require.Equal(t, "Copy of Hosting", copyOf.Title)
	require.Equal(t, "draft", copyOf.Status)
}

func TestRouter_DeleteRequiresAdmin(t *testing.T) {
	server := newTestServer(t, 0)

	admin := newClient(t, server)
	admin.signupAndLogin("owner")
	member := newClient(t, server)
	member.signupAndLogin("staff")

	var org idBody
	require.Equal(t, http.StatusCreated, member.do(http.MethodPost, "/api/organizations", map[string]any{"name": "Globex"}, &org))

	path := fmt.Sprintf("/api/organizations/%d", org.ID)
	require.Equal(t, http.StatusForbidden, member.do(http.MethodDelete, path, nil, nil))
	require.Equal(t, http.StatusOK, admin.do(http.MethodDelete, path, nil, nil))
}

func TestRouter_FormsAndLogoWithoutStorage(t *testing.T) {
	server := newTestServer(t, 0)
	admin := newClient(t, server)
	admin.signupAndLogin("owner")

	var org idBody
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/organizations", map[string]any{"name": "Acme GmbH"}, &org))

	var form struct {
		Fields []struct {
			Name    string `json:"name"`
			Options []struct {
				Label string `json:"label"`
			} `json:"options"`
		} `json:"fields"`
	}
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/api/forms/contact", nil, &form))

	var orgOptions []string
	for _, f := range form.Fields {
		if f.Name == "organization_id" {
			for _, o := range f.Options {
				orgOptions = append(orgOptions, o.Label)
			}
		}
	}
	require.Equal(t, []string{"Acme GmbH"}, orgOptions)

	require.Equal(t, http.StatusNotFound, admin.do(http.MethodGet, "/api/forms/spaceship", nil, nil))

	var entity idBody
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/corporate-entities", map[string]any{"name": "Bizops Ltd"}, &entity))
	require.Equal(t, http.StatusServiceUnavailable, admin.do(http.MethodGet, fmt.Sprintf("/api/corporate-entities/%d/logo", entity.ID), nil, nil))
}

func TestRouter_PublicRateLimit(t *testing.T) {
	server := newTestServer(t, 2)
	visitor := newClient(t, server)

	path := "/public/projects/0b7d2a8c-6a55-4b1e-8f0e-000000000000"
	require.Equal(t, http.StatusNotFound, visitor.do(http.MethodGet, path, nil, nil))
	require.Equal(t, http.StatusNotFound, visitor.do(http.MethodGet, path, nil, nil))
	require.Equal(t, http.StatusTooManyRequests, visitor.do(http.MethodGet, path, nil, nil))
}
