package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// tokenSafetyMargin is subtracted from the provider-supplied expiry so a
// token is never used right at its deadline.
const tokenSafetyMargin = 5 * time.Minute

// Client talks to the Feishu open-platform API. It caches the tenant access
// token in-process until expiry minus the safety margin.
type Client struct {
	baseURL      string
	appID        string
	appSecret    string
	employeeType string
	httpClient   *http.Client

	mu          sync.Mutex
	cachedToken string
	tokenExpiry time.Time
}

// NewClient creates a new open-platform client
func NewClient(cfg config.FeishuConfig) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		appID:        cfg.AppID,
		appSecret:    cfg.AppSecret,
		employeeType: cfg.EmployeeType,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tenantTokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"` // seconds
}

// GetToken returns a tenant access token, reusing the cached one while it is
// still valid. Any failure is an AuthError and fatal for the current run.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.cachedToken, nil
	}

	if c.appID == "" || c.appSecret == "" {
		return "", &models.AuthError{Reason: "missing APP_ID or APP_SECRET"}
	}

	body, err := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	if err != nil {
		return "", &models.AuthError{Reason: "encode token request", Err: err}
	}

	url := c.baseURL + "/open-apis/auth/v3/tenant_access_token/internal"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &models.AuthError{Reason: "build token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &models.AuthError{Reason: "token request failed", Err: err}
	}
	defer resp.Body.Close()

	var tr tenantTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", &models.AuthError{Reason: "decode token response", Err: err}
	}
	if tr.Code != 0 {
		return "", &models.AuthError{Reason: fmt.Sprintf("provider rejected credentials: %s (code %d)", tr.Msg, tr.Code)}
	}
	if tr.TenantAccessToken == "" {
		return "", &models.AuthError{Reason: "provider returned an empty token"}
	}

	c.cachedToken = tr.TenantAccessToken
	expiry := time.Duration(tr.Expire) * time.Second
	if expiry > tokenSafetyMargin {
		expiry -= tokenSafetyMargin
	}
	c.tokenExpiry = time.Now().Add(expiry)

	log.Printf("Obtained tenant access token %s (valid for %s)", maskToken(tr.TenantAccessToken), expiry)
	return c.cachedToken, nil
}

// postJSON sends an authorized POST and decodes the response envelope into out
func (c *Client) postJSON(ctx context.Context, token, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// maskToken hides the middle of a token so logs stay safe
func maskToken(token string) string {
	if len(token) <= 10 {
		return "***"
	}
	return token[:5] + "..." + token[len(token)-5:]
}
