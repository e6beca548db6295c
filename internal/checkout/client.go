// Package checkout wraps the payment provider's hosted checkout-session
// API: create a session for one report unlock, retrieve it after the
// redirect to decide whether the report may be shown.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/aurascan/aurascan/internal/config"
	"github.com/aurascan/aurascan/internal/fault"
)

const (
	apiBaseURL     = "https://api.stripe.com/v1"
	requestTimeout = 15 * time.Second

	// successPath carries the session-id placeholder the provider
	// substitutes on redirect.
	successPath = "/?checkout=success&session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/?checkout=cancel"
)

// Session is the provider-side transaction record, immutable once
// retrieved. A fresh one supersedes it on every unlock retry; nothing is
// persisted on our side.
type Session struct {
	ID            string  `json:"id"`
	URL           string  `json:"url"`
	PaymentStatus string  `json:"payment_status"`
	Status        string  `json:"status"`
	AmountTotal   *int64  `json:"amount_total"`
	Currency      *string `json:"currency"`
}

// Paid reports whether the session both settled payment and finalized.
// Both conditions are required: a session can be complete via a
// zero-value line item without payment, or paid asynchronously before
// finalization.
func (s Session) Paid() bool {
	return s.PaymentStatus == "paid" && s.Status == "complete"
}

// providerEnvelope is the session body plus the provider's error object
// on failure responses.
type providerEnvelope struct {
	Session
	Error *providerError `json:"error"`
}

type providerError struct {
	Message string `json:"message"`
}

// Client talks to the payment provider. One instance is shared across
// requests; it holds only immutable configuration.
type Client struct {
	httpClient  *resty.Client
	secretKey   string
	priceID     string
	amountCents int64
	currency    string
	productName string
}

// NewClient builds a checkout client from configuration.
func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(apiBaseURL).
		SetTimeout(requestTimeout)

	return &Client{
		httpClient:  httpClient,
		secretKey:   cfg.StripeSecretKey,
		priceID:     cfg.StripePriceID,
		amountCents: cfg.StripeAmountCents,
		currency:    cfg.StripeCurrency,
		productName: cfg.StripeProductName,
	}
}

// Configured reports whether the provider secret key is present.
func (c *Client) Configured() bool { return c.secretKey != "" }

// CreateSession opens a new checkout session whose success and cancel
// URLs point back at the given origin. When a pre-created price id is
// configured it is referenced directly; otherwise an inline price is
// built from the configured amount, currency and product name.
func (c *Client) CreateSession(ctx context.Context, origin string) (Session, error) {
	if c.secretKey == "" {
		return Session{}, fault.New(fault.KindConfiguration, "STRIPE_SECRET_KEY is not configured")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", origin+successPath)
	form.Set("cancel_url", origin+cancelPath)
	form.Set("allow_promotion_codes", "false")
	form.Set("billing_address_collection", "auto")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][quantity]", "1")
	if c.priceID != "" {
		form.Set("line_items[0][price]", c.priceID)
	} else {
		form.Set("line_items[0][price_data][currency]", c.currency)
		form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(c.amountCents, 10))
		form.Set("line_items[0][price_data][product_data][name]", c.productName)
	}

	res, err := c.httpClient.NewRequest().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetFormDataFromValues(form).
		Post("/checkout/sessions")
	if err != nil {
		if isTimeout(err) {
			return Session{}, fault.Wrap(fault.KindTimeout, err, "checkout session request timed out")
		}
		return Session{}, fault.Wrap(fault.KindUpstream, err, "checkout session request failed")
	}

	return decodeSession(res, "checkout session creation failed")
}

// RetrieveSession fetches a session by identifier so the caller can
// decide whether the report is paid for.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (Session, error) {
	if c.secretKey == "" {
		return Session{}, fault.New(fault.KindConfiguration, "STRIPE_SECRET_KEY is not configured")
	}

	res, err := c.httpClient.NewRequest().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		Get("/checkout/sessions/" + url.PathEscape(sessionID))
	if err != nil {
		if isTimeout(err) {
			return Session{}, fault.Wrap(fault.KindTimeout, err, "checkout session verification timed out")
		}
		return Session{}, fault.Wrap(fault.KindUpstream, err, "checkout session verification failed")
	}

	return decodeSession(res, "checkout session verification failed")
}

// decodeSession maps a provider response to a Session, surfacing the
// provider's own error message on failure statuses when present.
func decodeSession(res *resty.Response, failureMsg string) (Session, error) {
	var envelope providerEnvelope
	if err := json.Unmarshal(res.Body(), &envelope); err != nil {
		if res.IsError() {
			return Session{}, fault.New(fault.KindUpstream, "%s (%d)", failureMsg, res.StatusCode())
		}
		return Session{}, fault.Wrap(fault.KindMalformedResponse, err, "invalid response from payment provider")
	}
	if res.IsError() {
		msg := failureMsg
		if envelope.Error != nil && envelope.Error.Message != "" {
			msg = envelope.Error.Message
		}
		return Session{}, fault.New(fault.KindUpstream, "%s", msg)
	}
	return envelope.Session, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
