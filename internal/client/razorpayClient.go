package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"razorpay-checkout/internal/config"
	"razorpay-checkout/internal/model"
)

var (
	// ErrGatewayRequestFailed is returned when Razorpay answers with a non-2xx status.
	ErrGatewayRequestFailed = errors.New("razorpay: request failed")
	// ErrGatewayUnavailable is returned when Razorpay cannot be reached.
	ErrGatewayUnavailable = errors.New("razorpay: gateway unavailable")
)

type RazorpayClient interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.RazorpayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*model.RazorpayPayment, error)
}

type CreateOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

type razorpayClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	keyID      string
	keySecret  string
}

func NewRazorpayClient(razorpayCfg *config.Razorpay) RazorpayClient {
	return &razorpayClientImpl{
		httpClient: &http.Client{
			Timeout: razorpayCfg.Timeout,
		},
		baseApiURL: razorpayCfg.BaseApiURL,
		keyID:      razorpayCfg.KeyID,
		keySecret:  razorpayCfg.KeySecret,
	}
}

func (c *razorpayClientImpl) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.RazorpayOrder, error) {
	payload := map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"payment_capture": 1,
		"notes":           req.Notes,
	}
	if req.Receipt != "" {
		payload["receipt"] = req.Receipt
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	var order model.RazorpayOrder
	if err := c.do(ctx, http.MethodPost, "/v1/orders", body, &order); err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	return &order, nil
}

func (c *razorpayClientImpl) FetchPayment(ctx context.Context, paymentID string) (*model.RazorpayPayment, error) {
	var payment model.RazorpayPayment
	path := "/v1/payments/" + url.PathEscape(paymentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payment); err != nil {
		return nil, fmt.Errorf("fetch razorpay payment %s: %w", paymentID, err)
	}

	return &payment, nil
}

func (c *razorpayClientImpl) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, reader)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr model.RazorpayError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("%w: status=%d code=%s description=%s",
				ErrGatewayRequestFailed, resp.StatusCode, apiErr.Error.Code, apiErr.Error.Description)
		}
		return fmt.Errorf("%w: status=%d body=%s", ErrGatewayRequestFailed, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode razorpay response: %w", err)
	}
	return nil
}
