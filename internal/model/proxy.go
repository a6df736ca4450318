// Package model defines shared types for the proxy pipeline.
package model

import (
	"encoding/json"

	"api-gateway/internal/apierror"
)

// UpstreamCallSpec describes one outbound call to a backend service.
// Each route handler constructs exactly one spec per request; the proxy
// invoker consumes it once.
type UpstreamCallSpec struct {
	Service string // logical service name from the registry
	Path    string
	Method  string
	Body    json.RawMessage // nil when the route carries no body
}

// ProxyOutcome is the classified result of one forwarded call.
//
// A nil Err means the upstream responded and its status and body are
// relayed verbatim, whether or not the status is in the 2xx range —
// upstream-originated errors keep their own contract. A non-nil Err is a
// failure synthesized by the gateway itself (transport failure, timeout,
// unparsable body) and is rendered through the apierror envelope.
type ProxyOutcome struct {
	Status int
	Body   json.RawMessage
	Err    *apierror.Error
}

// Relay builds an outcome that passes the upstream response through unchanged.
func Relay(status int, body []byte) ProxyOutcome {
	return ProxyOutcome{Status: status, Body: body}
}

// Failure builds an outcome for a gateway-synthesized error.
func Failure(err *apierror.Error) ProxyOutcome {
	return ProxyOutcome{Err: err}
}

// Success reports whether the outcome relays a 2xx upstream response.
func (o ProxyOutcome) Success() bool {
	return o.Err == nil && o.Status >= 200 && o.Status <= 299
}
