package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/remote"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type response struct {
	status int
	body   []byte
}

// Client talks JSON over HTTP to the remote transaction service. Every call
// goes through a circuit breaker so a dead backend trips open instead of
// being hammered by retries; an open breaker reads as a transport failure.
type Client struct {
	cfg     *Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*response]
	logger  logger.ZapLogger
}

func NewClient(cfg *Config, log logger.ZapLogger) *Client {
	settings := gobreaker.Settings{
		Name:        "remote-transaction-service",
		MaxRequests: 1,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[*response](settings),
		logger:  log,
	}
}

func (c *Client) SubmitSale(ctx context.Context, req *remote.SaleRequest) (*remote.SaleResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal sale request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/pos/sales", payload, req.ClientRef)
	if err != nil {
		return nil, err
	}

	var result remote.SaleResult
	if err := json.Unmarshal(resp.body, &result); err != nil {
		// Got a response we cannot interpret: indeterminate.
		return nil, &remote.TransportError{Err: fmt.Errorf("decode sale result: %w", err)}
	}
	if !result.Success {
		return nil, &remote.RejectedError{Message: result.Message}
	}
	return &result, nil
}

func (c *Client) FetchAllProducts(ctx context.Context) ([]model.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/pos/products", nil, "")
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := json.Unmarshal(resp.body, &products); err != nil {
		return nil, &remote.TransportError{Err: fmt.Errorf("decode products: %w", err)}
	}
	return products, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, idempotencyKey string) (*response, error) {
	resp, err := c.breaker.Execute(func() (*response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}

		httpResp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		raw, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, err
		}
		if httpResp.StatusCode >= http.StatusInternalServerError {
			// 5xx counts as a breaker failure and is indeterminate for
			// the caller: the backend may or may not have applied it.
			return nil, fmt.Errorf("remote returned %d", httpResp.StatusCode)
		}
		return &response{status: httpResp.StatusCode, body: raw}, nil
	})
	if err != nil {
		c.logger.Debug("remote call failed", zap.String("path", path), zap.Error(err))
		return nil, &remote.TransportError{Err: err}
	}

	if resp.status >= http.StatusBadRequest {
		// Definitive refusal with a readable body.
		var rejection struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(resp.body, &rejection); err != nil || rejection.Message == "" {
			rejection.Message = fmt.Sprintf("request refused with status %d", resp.status)
		}
		return nil, &remote.RejectedError{Message: rejection.Message}
	}
	return resp, nil
}
