// Package client talks to the freshness prediction API over HTTP. It is what
// the manual-testing CLI uses and mirrors what the web UI sends.
package client

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

const (
	healthTimeout  = 5 * time.Second
	predictTimeout = 30 * time.Second
)

type Health struct {
	Status      string  `json:"status"`
	ModelLoaded bool    `json:"model_loaded"`
	DemoMode    bool    `json:"demo_mode"`
	ModelPath   *string `json:"model_path"`
}

type Prediction struct {
	DaysRemaining float64 `json:"days_remaining"`
	Status        string  `json:"status"`
	DemoMode      bool    `json:"demo_mode"`
	Message       string  `json:"message,omitempty"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Detail)
}

type Client struct {
	rest *resty.Client
}

// New returns a client for baseURL. apiKey is sent as X-API-Key when set.
func New(baseURL, apiKey string) *Client {
	rest := resty.New().SetBaseURL(baseURL)
	if apiKey != "" {
		rest.SetHeader("X-API-Key", apiKey)
	}
	return &Client{rest: rest}
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var health Health
	var apiErr APIError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&health).
		SetError(&apiErr).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return nil, &apiErr
	}
	return &health, nil
}

// Predict uploads data in the "file" field. The part's content type is
// sniffed from the bytes.
func (c *Client) Predict(ctx context.Context, filename string, data []byte) (*Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, predictTimeout)
	defer cancel()

	contentType := mimetype.Detect(data).String()

	var prediction Prediction
	var apiErr APIError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetMultipartField("file", filename, contentType, bytes.NewReader(data)).
		SetResult(&prediction).
		SetError(&apiErr).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return nil, &apiErr
	}
	return &prediction, nil
}
