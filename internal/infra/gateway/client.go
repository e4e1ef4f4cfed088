package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
)

const maxResponseBytes = 1 << 20

// Client talks to the hosted checkout API.
type Client struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	http       *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		// Per-call deadlines come from the caller's context; this bounds a missing one.
		http: &http.Client{Timeout: 2 * cfg.Timeout},
	}
}

type checkoutSessionRequest struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata"`
}

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type refundRequest struct {
	PaymentReference string `json:"payment_reference"`
	Amount           int64  `json:"amount"`
}

type refundResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req commands.CheckoutRequest) (commands.CheckoutSession, error) {
	body := checkoutSessionRequest{
		Amount:        req.Amount.Minor(),
		Currency:      strings.ToLower(req.Currency),
		Description:   req.Description,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    c.successURL,
		CancelURL:     c.cancelURL,
		Metadata: map[string]string{
			"booking_id": req.BookingID.String(),
			"payment_id": req.PaymentID.String(),
			"purpose":    string(req.Purpose),
		},
	}

	var resp checkoutSessionResponse
	if err := c.post(ctx, "/v1/checkout/sessions", req.IdempotencyKey, body, &resp); err != nil {
		return commands.CheckoutSession{}, err
	}
	if resp.ID == "" || resp.URL == "" {
		return commands.CheckoutSession{}, errs.Markf(errs.ErrGateway, "checkout session response missing id or url")
	}
	return commands.CheckoutSession{Reference: resp.ID, URL: resp.URL}, nil
}

func (c *Client) Refund(ctx context.Context, req commands.RefundRequest) (string, error) {
	if req.Reference == "" {
		return "", errs.Markf(errs.ErrGateway, "refund requires a payment reference")
	}
	body := refundRequest{
		PaymentReference: req.Reference,
		Amount:           req.Amount.Minor(),
	}

	var resp refundResponse
	if err := c.post(ctx, "/v1/refunds", req.IdempotencyKey, body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errs.Markf(errs.ErrGateway, "refund response missing id")
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path, idempotencyKey string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errs.Wrap(err, "failed to encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errs.Mark(errs.Wrap(err, "failed to build gateway request"), errs.ErrGateway)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	started := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errs.Mark(errs.Wrapf(ctx.Err(), "gateway %s", path), errs.ErrGatewayTimeout)
		}
		return errs.Mark(errs.Wrapf(err, "gateway %s", path), errs.ErrGateway)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "failed to read gateway %s response", path), errs.ErrGateway)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return statusError(path, res.StatusCode, raw, time.Since(started))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errs.Mark(errs.Wrapf(err, "failed to decode gateway %s response", path), errs.ErrGateway)
	}
	return nil
}

func statusError(path string, status int, raw []byte, took time.Duration) error {
	msg := http.StatusText(status)
	var apiErr apiError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		msg = fmt.Sprintf("%s: %s", apiErr.Error.Type, apiErr.Error.Message)
	}
	if status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout {
		return errs.Markf(errs.ErrGatewayTimeout, "gateway %s returned %d after %s: %s", path, status, took, msg)
	}
	return errs.Markf(errs.ErrGateway, "gateway %s returned %d: %s", path, status, msg)
}
