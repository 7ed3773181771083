package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawuz/kawuz-backend/config"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/app/service"
	"github.com/kawuz/kawuz-backend/internal/db"
	"github.com/kawuz/kawuz-backend/internal/middleware"
	"github.com/kawuz/kawuz-backend/pkg/captcha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-controllers"

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	captchaClient := captcha.NewClient(config.CaptchaConfig{})
	authService := service.NewAuthService(userRepo, captchaClient, testJWTSecret, 15*time.Minute, 168*time.Hour)
	authController := NewAuthController(authService, testJWTSecret, 15*time.Minute, false, false)
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret, false)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)
	router.POST("/auth/logout", authMiddleware.OptionalAuthenticate(), authController.Logout)
	router.GET("/auth/me", authMiddleware.Authenticate(), authController.GetMe)

	return router
}

func registerTestUser(t *testing.T, router *gin.Engine) string {
	body, _ := json.Marshal(RegisterRequest{
		Email:    "jan@example.com",
		Password: "password123",
		Name:     "Jan",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Tokens.AccessToken)
	return resp.Tokens.AccessToken
}

func TestAuthController_Register(t *testing.T) {
	router := setupAuthControllerTest(t)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "jan@example.com",
		Password: "password123",
		Name:     "Jan",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "jan@example.com")
	assert.NotContains(t, w.Body.String(), "password123")

	// Access token also lands in the auth cookie
	cookies := w.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == middleware.AuthCookieName && cookie.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "auth cookie should be set")
}

func TestAuthController_Register_Validation(t *testing.T) {
	router := setupAuthControllerTest(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{
			name: "Missing email",
			body: map[string]string{"password": "password123", "name": "Jan"},
		},
		{
			name: "Bad email format",
			body: map[string]string{"email": "not-an-email", "password": "password123", "name": "Jan"},
		},
		{
			name: "Short password",
			body: map[string]string{"email": "jan@example.com", "password": "short", "name": "Jan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	router := setupAuthControllerTest(t)
	registerTestUser(t, router)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "jan@example.com",
		Password: "otherpassword",
		Name:     "Drugi Jan",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Login(t *testing.T) {
	router := setupAuthControllerTest(t)
	registerTestUser(t, router)

	t.Run("Correct credentials", func(t *testing.T) {
		body, _ := json.Marshal(LoginRequest{
			Email:    "jan@example.com",
			Password: "password123",
		})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
	})

	t.Run("Wrong password", func(t *testing.T) {
		body, _ := json.Marshal(LoginRequest{
			Email:    "jan@example.com",
			Password: "wrongpassword",
		})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
	})
}

func TestAuthController_GetMe(t *testing.T) {
	router := setupAuthControllerTest(t)
	token := registerTestUser(t, router)

	t.Run("With token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "jan@example.com")
	})

	t.Run("Without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_Logout_ClearsCookie(t *testing.T) {
	router := setupAuthControllerTest(t)
	token := registerTestUser(t, router)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AuthCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "auth cookie should be cleared")
}
