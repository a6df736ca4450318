// Package service implements the proxy invoker: it translates one inbound
// endpoint into one outbound call, performs it, and classifies the outcome.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"api-gateway/internal/apierror"
	"api-gateway/internal/client"
	"api-gateway/internal/model"
	"api-gateway/internal/registry"
)

// Invoker forwards UpstreamCallSpecs to backend services.
type Invoker struct {
	client   *client.Client
	registry *registry.Registry
	logger   *slog.Logger
}

// NewInvoker creates an Invoker.
func NewInvoker(c *client.Client, r *registry.Registry, logger *slog.Logger) *Invoker {
	return &Invoker{
		client:   c,
		registry: r,
		logger:   logger.With("component", "proxy_invoker"),
	}
}

// Forward performs one outbound call and classifies the result. Every call
// yields exactly one outcome:
//
//   - transport failure          → ServiceUnavailable
//   - timeout                    → RequestTimeout
//   - body not valid JSON        → InternalServerError
//   - any completed JSON response → status and body relayed verbatim,
//     2xx or not; upstream errors keep their own shape.
//
// No retries and no timeout beyond the client's transport default.
func (s *Invoker) Forward(ctx context.Context, spec model.UpstreamCallSpec) model.ProxyOutcome {
	svc, err := s.registry.Resolve(spec.Service)
	if err != nil {
		// The route table and the registry are both fixed at startup, so
		// this is a programming error, not a client-triggerable state.
		s.logger.Error("unresolvable service", "service", spec.Service, "err", err)
		return model.Failure(
			apierror.New(apierror.InternalServerError, "Unknown backend service").
				WithDetail(err.Error()))
	}

	s.logger.Debug("forwarding request",
		"service", spec.Service,
		"method", spec.Method,
		"path", spec.Path,
	)

	resp, err := s.client.Do(ctx, spec.Service, spec.Method, svc.URL(spec.Path), spec.Body)
	if err != nil {
		return model.Failure(s.classifyTransportError(svc, err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("reading upstream body", "service", spec.Service, "err", err)
		return model.Failure(
			apierror.New(apierror.ServiceUnavailable, fmt.Sprintf("%s unavailable", svc.DisplayName)).
				WithDetail(err.Error()))
	}

	// The body is relayed as an opaque JSON value, never reinterpreted.
	// It only has to be well-formed; an empty body (e.g. 204) is allowed.
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && !json.Valid(trimmed) {
		s.logger.Error("unparsable upstream body",
			"service", spec.Service,
			"status", resp.StatusCode,
		)
		return model.Failure(
			apierror.New(apierror.InternalServerError, "Error parsing response").
				WithDetail(fmt.Sprintf("upstream %s returned a non-JSON body", spec.Service)))
	}

	return model.Relay(resp.StatusCode, body)
}

// classifyTransportError maps a failed outbound call to the error taxonomy.
func (s *Invoker) classifyTransportError(svc registry.Service, err error) *apierror.Error {
	s.logger.Error("upstream call failed", "service", svc.Name, "err", err)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) || isTimeout(err) {
		return apierror.New(apierror.RequestTimeout, fmt.Sprintf("%s timed out", svc.DisplayName)).
			WithDetail(err.Error())
	}

	return apierror.New(apierror.ServiceUnavailable, fmt.Sprintf("%s unavailable", svc.DisplayName)).
		WithDetail(err.Error())
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
