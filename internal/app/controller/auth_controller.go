package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawuz/kawuz-backend/internal/app/service"
	httperrors "github.com/kawuz/kawuz-backend/internal/errors"
	"github.com/kawuz/kawuz-backend/internal/middleware"
	"github.com/kawuz/kawuz-backend/pkg/redis"
	"github.com/kawuz/kawuz-backend/pkg/util"
)

type AuthController struct {
	authService      service.AuthService
	jwtSecret        string
	accessExpiry     time.Duration
	blacklistEnabled bool
	secureCookies    bool
}

// NewAuthController creates the auth controller. blacklistEnabled requires a
// working Redis connection; secureCookies should be true outside development.
func NewAuthController(
	authService service.AuthService,
	jwtSecret string,
	accessExpiry time.Duration,
	blacklistEnabled bool,
	secureCookies bool,
) *AuthController {
	return &AuthController{
		authService:      authService,
		jwtSecret:        jwtSecret,
		accessExpiry:     accessExpiry,
		blacklistEnabled: blacklistEnabled,
		secureCookies:    secureCookies,
	}
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	CaptchaToken string `json:"captcha_token"`
}

type LoginRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	CaptchaToken string `json:"captcha_token"`
}

// setAuthCookie stores the access token so browser requests authenticate
// without an Authorization header.
func (ctrl *AuthController) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(ctrl.accessExpiry.Seconds()), "/", "", ctrl.secureCookies, true)
}

func (ctrl *AuthController) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", ctrl.secureCookies, true)
}

// Register creates a new account
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		httperrors.BadRequest(c, httperrors.ValidationInvalidInput, "Nieprawidłowe dane rejestracji")
		return
	}

	user, tokens, err := ctrl.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.CaptchaToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaFailed):
			httperrors.BadRequest(c, httperrors.AuthCaptchaFailed, "Weryfikacja captcha nie powiodła się")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			httperrors.Conflict(c, httperrors.AuthEmailAlreadyExists, "Ten adres e-mail jest już zarejestrowany")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			info := httperrors.ParseError(err, "create user")
			httperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		}
		return
	}

	ctrl.setAuthCookie(c, tokens.AccessToken)

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login authenticates a user
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		httperrors.BadRequest(c, httperrors.ValidationInvalidInput, "Nieprawidłowe dane logowania")
		return
	}

	user, tokens, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password, req.CaptchaToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaFailed):
			httperrors.BadRequest(c, httperrors.AuthCaptchaFailed, "Weryfikacja captcha nie powiodła się")
		case errors.Is(err, service.ErrInvalidCredentials):
			httperrors.RespondWithError(c, http.StatusUnauthorized, httperrors.AuthInvalidCredentials, "Nieprawidłowy adres e-mail lub hasło")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			httperrors.InternalError(c, "")
		}
		return
	}

	ctrl.setAuthCookie(c, tokens.AccessToken)

	log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Logout revokes the current access token and clears the auth cookie
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.blacklistEnabled {
		if token := ctrl.currentToken(c); token != "" {
			// Blacklist only until the token would expire anyway
			if claims, err := util.ValidateToken(token, ctrl.jwtSecret); err == nil {
				ttl := time.Until(claims.ExpiresAt.Time)
				if ttl > 0 {
					if err := redis.BlacklistToken(c.Request.Context(), token, ttl); err != nil {
						// Logout always succeeds from the user's perspective
						log.Error("Failed to blacklist token during logout", err, nil)
					}
				}
			}
		}
	}

	ctrl.clearAuthCookie(c)

	if userID, ok := middleware.GetUserID(c); ok {
		log.Info("User logged out", map[string]interface{}{
			"user_id": userID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wylogowano pomyślnie",
	})
}

// currentToken extracts the raw access token the request authenticated with.
func (ctrl *AuthController) currentToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(middleware.AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// GetMe returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httperrors.NotFound(c, httperrors.ResourceNotFound, "Użytkownik nie został znaleziony")
			return
		}
		log.Error("Failed to fetch user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		httperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
