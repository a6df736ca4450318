// Package client provides the pooled HTTP client for backend calls.
package client

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"api-gateway/internal/config"
	"api-gateway/internal/metrics"
)

const userAgent = "api-gateway/1.0"

// Client sends requests to backend services over a shared connection pool.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New creates a Client with connection pooling and timeouts.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func New(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost: cfg.Upstream.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		},
		logger:  logger.With("component", "upstream_client"),
		metrics: m,
	}
}

// Do executes one call against a backend service and returns the raw
// response. The caller is responsible for closing the response body.
// A JSON content type is set when a body is present. The provided context
// controls the lifetime of the call: when it is canceled (e.g. the client
// disconnects), the upstream request is canceled with it.
func (c *Client) Do(ctx context.Context, service, method, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("upstream request",
		"service", service,
		"method", method,
		"path", req.URL.Path,
	)

	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to caller
	if err != nil {
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.UpstreamResponses.WithLabelValues(service, strconv.Itoa(resp.StatusCode)).Inc()
	}

	return resp, nil
}
