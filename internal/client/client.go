// Package client is a small typed client for the Aurascan API, used by
// the auractl CLI and available to other Go callers.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is an HTTP client for the Aurascan API.
type Client struct {
	httpClient *resty.Client
}

// New creates an API client for the given base URL
// (e.g., "http://localhost:8080").
func New(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second)
	return &Client{httpClient: httpClient}
}

// Health mirrors GET /api/health.
type Health struct {
	VisionConfigured bool `json:"vision_configured"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var result Health
	_, err := handleError(c.httpClient.NewRequest().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/health"))
	return result, err
}

// AnalyzeFile uploads an image file as multipart form data and returns
// the raw report JSON. The body is returned unparsed because the server
// may answer with either the report payload or the legacy simulated
// shape.
func (c *Client) AnalyzeFile(ctx context.Context, path string) (json.RawMessage, error) {
	res, err := handleError(c.httpClient.NewRequest().
		SetContext(ctx).
		SetFile("image", path).
		Post("/api/analyze"))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(res.Body()), nil
}

// VerifyResult mirrors GET /api/checkout/verify.
type VerifyResult struct {
	Paid          bool   `json:"paid"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

func (c *Client) VerifySession(ctx context.Context, sessionID string) (VerifyResult, error) {
	var result VerifyResult
	_, err := handleError(c.httpClient.NewRequest().
		SetContext(ctx).
		SetQueryParam("session_id", sessionID).
		SetResult(&result).
		Get("/api/checkout/verify"))
	return result, err
}

// apiError is the server's structured error body.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// handleError turns failing responses (>399 status) into errors carrying
// the server's own message when it sent one.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		var body apiError
		if json.Unmarshal(res.Body(), &body) == nil && body.Error != "" {
			return res, fmt.Errorf("API error (status %d): %s", res.StatusCode(), body.Error)
		}
		return res, fmt.Errorf("API error (status %d): %s", res.StatusCode(), res.String())
	}
	return res, nil
}
