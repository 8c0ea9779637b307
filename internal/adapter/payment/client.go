package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
)

// ErrPaymentNotFound indicates the gateway doesn't know the reference.
var ErrPaymentNotFound = errors.New("payment not found")

// TooManyRequestsError represents a rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes the payment gateway operations used by checkout and
// reconciliation.
type Client interface {
	CreateSession(ctx context.Context, reference string, amountMinor int64, description string) (*model.PaymentSession, error)
	GetPayment(ctx context.Context, reference string) (model.PaymentState, error)
}

// HTTPClient implements Client via the gateway's ePayment HTTP API.
type HTTPClient struct {
	baseURL         *url.URL
	subscriptionKey string
	httpClient      *http.Client
	logger          *slog.Logger
}

type createSessionRequest struct {
	Reference   string `json:"reference"`
	Description string `json:"paymentDescription"`
	Amount      struct {
		Value    int64  `json:"value"`
		Currency string `json:"currency"`
	} `json:"amount"`
}

type createSessionResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirectUrl"`
}

type paymentResponse struct {
	Reference string `json:"reference"`
	State     string `json:"state"`
}

// NewHTTPClient creates a gateway client with default timeout.
func NewHTTPClient(baseURL, subscriptionKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL:         parsed,
		subscriptionKey: subscriptionKey,
		logger:          logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateSession starts a checkout session and returns the redirect URL.
func (c *HTTPClient) CreateSession(ctx context.Context, reference string, amountMinor int64, description string) (*model.PaymentSession, error) {
	payload := createSessionRequest{Reference: reference, Description: description}
	payload.Amount.Value = amountMinor
	payload.Amount.Currency = "NOK"

	body, err := c.do(ctx, http.MethodPost, "/epayment/v1/payments", payload)
	if err != nil {
		return nil, err
	}

	var data createSessionResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if data.Reference == "" {
		data.Reference = reference
	}
	return &model.PaymentSession{Reference: data.Reference, RedirectURL: data.RedirectURL}, nil
}

// GetPayment queries the gateway for the payment state of a reference.
func (c *HTTPClient) GetPayment(ctx context.Context, reference string) (model.PaymentState, error) {
	body, err := c.do(ctx, http.MethodGet, path.Join("/epayment/v1/payments/", reference), nil)
	if err != nil {
		return "", err
	}

	var data paymentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("decode payment response: %w", err)
	}
	return model.PaymentState(data.State), nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpointPath string, payload any) (json.RawMessage, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.subscriptionKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrPaymentNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		c.logger.Error("payment gateway request failed",
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("payment gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
