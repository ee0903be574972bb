// Package gateway is the HTTP client for the third-party SMS provider.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fastprodman/smscoins/internal/config"
)

// ErrUnavailable covers every outcome where the provider's verdict is
// unknown: transport errors, timeouts and unreadable replies.
var ErrUnavailable = errors.New("sms gateway unavailable")

const maxResponseBytes = 1 << 20

// Result is a reply the provider actually produced.
type Result struct {
	Code       int
	Message    string
	CountryISO string
	Status     string
	// Raw is the reply body as received.
	Raw json.RawMessage
}

// OK reports an application-level success (error_code 0).
func (r Result) OK() bool {
	return r.Code == 0
}

type sendResponse struct {
	ErrorCode  *int   `json:"error_code"`
	Message    string `json:"message"`
	CountryISO string `json:"country_iso"`
	Status     string `json:"status"`
}

type Client struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
}

func NewClient(cfg config.GatewayConfig) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway url %q", cfg.URL)
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gateway api key is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		endpoint: u.String(),
		apiKey:   cfg.APIKey,
		timeout:  timeout,
		client:   &http.Client{},
	}, nil
}

// Send submits one message. A returned error always wraps ErrUnavailable;
// a provider-side rejection is a Result with OK() == false and a nil error.
func (c *Client) Send(ctx context.Context, phone, message string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{
		"api_key": {c.apiKey},
		"phone":   {phone},
		"message": {message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w: no reply within %s", ErrUnavailable, c.timeout)
		}

		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	var sr sendResponse

	err = json.Unmarshal(body, &sr)
	if err != nil {
		return Result{}, fmt.Errorf("%w: decode reply (status %d): %w", ErrUnavailable, resp.StatusCode, err)
	}
	if sr.ErrorCode == nil {
		return Result{}, fmt.Errorf("%w: reply without error_code (status %d)", ErrUnavailable, resp.StatusCode)
	}

	return Result{
		Code:       *sr.ErrorCode,
		Message:    sr.Message,
		CountryISO: sr.CountryISO,
		Status:     sr.Status,
		Raw:        json.RawMessage(body),
	}, nil
}
