// internal/domain/payment/paypal.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

// PayPalClient talks to the PayPal Orders v2 API
type PayPalClient struct {
	baseURL    string
	clientID   string
	appSecret  string
	httpClient *http.Client
}

// NewPayPalClient creates a PayPal client from configuration
func NewPayPalClient(cfg *config.Config) *PayPalClient {
	return &PayPalClient{
		baseURL:   strings.TrimRight(cfg.External.PayPal.APIURL, "/"),
		clientID:  cfg.External.PayPal.ClientID,
		appSecret: cfg.External.PayPal.AppSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GatewayOrder is the result of creating an order at the gateway
type GatewayOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CaptureResult is the result of capturing an approved gateway order
type CaptureResult struct {
	ID           string
	Status       string
	EmailAddress string
	AmountPaid   money.Money
}

type captureResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder creates a gateway order for the given amount
func (c *PayPalClient) CreateOrder(ctx context.Context, amount money.Money) (*GatewayOrder, error) {
	token, err := c.generateAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         amount.String(),
				},
			},
		},
	}

	body, err := c.makeAPICall(ctx, http.MethodPost, "/v2/checkout/orders", token, payload)
	if err != nil {
		return nil, err
	}

	var gatewayOrder GatewayOrder
	if err := json.Unmarshal(body, &gatewayOrder); err != nil {
		return nil, fmt.Errorf("failed to parse create order response: %w", err)
	}

	return &gatewayOrder, nil
}

// CapturePayment captures an approved gateway order
func (c *PayPalClient) CapturePayment(ctx context.Context, gatewayOrderID string) (*CaptureResult, error) {
	token, err := c.generateAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/v2/checkout/orders/%s/capture", gatewayOrderID)
	body, err := c.makeAPICall(ctx, http.MethodPost, endpoint, token, nil)
	if err != nil {
		return nil, err
	}

	var resp captureResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse capture response: %w", err)
	}

	result := &CaptureResult{
		ID:           resp.ID,
		Status:       resp.Status,
		EmailAddress: resp.Payer.EmailAddress,
	}

	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		amount, err := money.FromString(resp.PurchaseUnits[0].Payments.Captures[0].Amount.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse captured amount: %w", err)
		}
		result.AmountPaid = amount
	}

	return result, nil
}

// generateAccessToken fetches an OAuth token using client credentials
func (c *PayPalClient) generateAccessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(c.clientID, c.appSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in response")
	}

	return tokenResp.AccessToken, nil
}

// makeAPICall makes an authenticated call to the PayPal API
func (c *PayPalClient) makeAPICall(ctx context.Context, method, endpoint, token string, data interface{}) ([]byte, error) {
	var reqBody io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s failed with status %d: %s", method, endpoint, resp.StatusCode, string(body))
	}

	return body, nil
}
