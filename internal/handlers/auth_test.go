package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bizops-api/internal/constants"
	"github.com/yukikurage/bizops-api/internal/dto"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/services"
	"github.com/yukikurage/bizops-api/internal/testutil"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db := testutil.OpenDB(t)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", env.handler.Signup)

	payload := map[string]string{
		"username": "newuser",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, payload["username"], response.Username)
	require.Equal(t, models.RoleAdmin, response.Role, "first user becomes admin")
}

func TestAuthHandler_SignupRejectsDuplicateAndShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{Username: "taken", Password: "supersecret"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/api/auth/signup", env.handler.Signup)

	tests := []struct {
		name     string
		payload  map[string]string
		expected int
	}{
		{"duplicate username", map[string]string{"username": "taken", "password": "supersecret"}, http.StatusConflict},
		{"short password", map[string]string{"username": "fresh", "password": "short"}, http.StatusBadRequest},
		{"bad email", map[string]string{"username": "other", "password": "supersecret", "email": "nope"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.expected, w.Code)
		})
	}

	second, err := env.authService.Signup(services.SignupInput{Username: "second", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, second.Role)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Username: "existing",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/login", env.handler.Login)

	payload := map[string]string{
		"username": "existing",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, payload["username"], response.Username)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Signup(services.SignupInput{
		Username: "current-user",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Username, response.Username)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{Username: "existing", Password: "supersecret"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/api/auth/login", env.handler.Login)

	body, err := json.Marshal(map[string]string{"username": "existing", "password": "wrong-password"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
