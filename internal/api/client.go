// Package api is the HTTP client for the transaction service.
package api

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
	"strings"
	"time"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request identifier for server-side tracing.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 4 << 10

// Client implements service.TransactionService over HTTP/JSON.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	retry      service.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the overall HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetry sets the retry policy for read-only requests.
func WithRetry(opts service.RetryOptions) Option {
	return func(c *Client) {
		c.retry = opts
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: api base url: %w", common.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: api base url %q must be http or https", common.ErrInvalidConfig, baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: service.DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTransactions fetches every transaction.
func (c *Client) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := common.WithRetry(ctx, func() error {
		return c.do(ctx, "list transactions", http.MethodGet, "/transactions", nil, &txs)
	}, c.retry)
	if err != nil {
		return nil, err
	}
	slog.Debug("Fetched transactions", "count", len(txs))
	return txs, nil
}

// ListPeople fetches the roster.
func (c *Client) ListPeople(ctx context.Context) ([]model.Person, error) {
	var people []model.Person
	err := common.WithRetry(ctx, func() error {
		return c.do(ctx, "list people", http.MethodGet, "/people", nil, &people)
	}, c.retry)
	if err != nil {
		return nil, err
	}
	return people, nil
}

// SummaryByCard fetches the per-card aggregation.
func (c *Client) SummaryByCard(ctx context.Context) (model.SummaryByCard, error) {
	var summary model.SummaryByCard
	err := common.WithRetry(ctx, func() error {
		return c.do(ctx, "fetch summary", http.MethodGet, "/summary/by-card", nil, &summary)
	}, c.retry)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// CreateTransaction posts a new record and returns it with its server id.
func (c *Client) CreateTransaction(ctx context.Context, record model.Transaction) (*model.Transaction, error) {
	var created model.Transaction
	if err := c.do(ctx, "create transaction", http.MethodPost, "/transactions", newRecordBody(record), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction sends a full replacement record for id and returns the
// stored record.
func (c *Client) UpdateTransaction(ctx context.Context, id model.ID, record model.Transaction) (*model.Transaction, error) {
	var updated model.Transaction
	path := "/transactions/" + url.PathEscape(id.String())
	if err := c.do(ctx, "update transaction", http.MethodPatch, path, newRecordBody(record), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction deletes id. Any 2xx is success; the body is ignored.
func (c *Client) DeleteTransaction(ctx context.Context, id model.ID) error {
	path := "/transactions/" + url.PathEscape(id.String())
	return c.do(ctx, "delete transaction", http.MethodDelete, path, nil, nil)
}

// do performs one request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &common.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("API request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		reqErr := &common.RequestError{Op: op, StatusCode: resp.StatusCode, Body: errorDetail(detail)}
		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %w", common.ErrRateLimit, reqErr)
		}
		return reqErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &common.TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorDetail extracts the "detail" message error responses usually carry,
// falling back to the raw body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Detail.(string); ok && s != "" {
			return s
		}
	}
	return strings.TrimSpace(string(body))
}
