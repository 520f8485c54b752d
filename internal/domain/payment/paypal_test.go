package payment

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

func testClient(baseURL string) *PayPalClient {
	return &PayPalClient{
		baseURL:    baseURL,
		clientID:   "client-id",
		appSecret:  "app-secret",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func paypalStub(t *testing.T, captureStatus string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:app-secret"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token"}`))
	})

	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"5O190127TN364715T","status":"CREATED"}`))
	})

	mux.HandleFunc("/v2/checkout/orders/5O190127TN364715T/capture", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		body := `{
			"id": "5O190127TN364715T",
			"status": "` + captureStatus + `",
			"payer": {"email_address": "buyer@example.com"},
			"purchase_units": [{
				"payments": {"captures": [{"amount": {"currency_code": "USD", "value": "120.75"}}]}
			}]
		}`
		w.Write([]byte(body))
	})

	return httptest.NewServer(mux)
}

func TestCreateOrder(t *testing.T) {
	server := paypalStub(t, "COMPLETED")
	defer server.Close()

	client := testClient(server.URL)
	amount, _ := money.FromString("120.75")

	gatewayOrder, err := client.CreateOrder(context.Background(), amount)
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", gatewayOrder.ID)
	assert.Equal(t, "CREATED", gatewayOrder.Status)
}

func TestCapturePayment(t *testing.T) {
	server := paypalStub(t, "COMPLETED")
	defer server.Close()

	client := testClient(server.URL)

	capture, err := client.CapturePayment(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", capture.ID)
	assert.Equal(t, "COMPLETED", capture.Status)
	assert.Equal(t, "buyer@example.com", capture.EmailAddress)
	assert.Equal(t, "120.75", capture.AmountPaid.String())
}

func TestCreateOrderRejectsBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	amount, _ := money.FromString("10.00")

	_, err := client.CreateOrder(context.Background(), amount)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "401"))
}

func TestValidateCapture(t *testing.T) {
	completed := &CaptureResult{ID: "PAY-1", Status: "COMPLETED"}

	assert.NoError(t, ValidateCapture("PAY-1", completed))

	// Capture for a different gateway order
	assert.ErrorIs(t, ValidateCapture("PAY-2", completed), ErrPaymentMismatch)

	// Order that never had a gateway order created
	assert.ErrorIs(t, ValidateCapture("", completed), ErrPaymentMismatch)

	pending := &CaptureResult{ID: "PAY-1", Status: "PENDING"}
	assert.ErrorIs(t, ValidateCapture("PAY-1", pending), ErrPaymentNotCompleted)
}
