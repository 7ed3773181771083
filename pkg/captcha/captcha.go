// Package captcha verifies Google reCAPTCHA tokens submitted with
// registration and login requests.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kawuz/kawuz-backend/config"
	"github.com/kawuz/kawuz-backend/pkg/logger"
)

// Client talks to the reCAPTCHA siteverify endpoint.
type Client struct {
	config     config.CaptchaConfig
	httpClient *http.Client
}

// NewClient creates a reCAPTCHA client with the given configuration.
func NewClient(cfg config.CaptchaConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a token received from the reCAPTCHA widget. Without a
// configured secret key it accepts everything, so local development does not
// require captcha setup.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	if c.config.SecretKey == "" {
		logger.Debug("Captcha secret not configured, skipping verification", nil)
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", c.config.SecretKey)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read captcha response: %w", err)
	}

	var result verifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("failed to unmarshal captcha response: %w", err)
	}

	if !result.Success {
		logger.Warn("Captcha verification rejected", map[string]interface{}{
			"error_codes": result.ErrorCodes,
		})
	}
	return result.Success, nil
}
