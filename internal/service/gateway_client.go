package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/logging"
)

// GatewayClient talks to the external payment gateway's order-creation
// endpoint. Calls are bounded by the client timeout so a hung gateway can
// never leave a half-initiated payment behind.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGatewayClient(baseURL string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type createOrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
}

func (c *GatewayClient) CreateOrder(ctx context.Context, amount int64, currency domain.Currency) (string, error) {
	log := logging.FromContext(ctx)

	body, err := json.Marshal(createOrderPayload{Amount: amount, Currency: string(currency)})
	if err != nil {
		return "", fmt.Errorf("CreateOrder: marshal: %w", err)
	}

	url := c.baseURL + "/orders"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("CreateOrder: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("CreateOrder: send: %v: %w", err, domain.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	log.Info("gateway order response",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("CreateOrder: status %d: %s: %w", resp.StatusCode, string(respBody), domain.ErrGatewayUnavailable)
	}

	var order createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("CreateOrder: decode: %v: %w", err, domain.ErrGatewayUnavailable)
	}
	if order.OrderID == "" {
		return "", fmt.Errorf("CreateOrder: empty order id: %w", domain.ErrGatewayUnavailable)
	}

	return order.OrderID, nil
}
