// Package apierror defines the closed error taxonomy for failures the
// gateway synthesizes itself. Upstream-originated errors bypass this
// package entirely and are relayed verbatim.
package apierror

import (
	"fmt"
	"net/http"
)

// Kind identifies one failure category. The set is closed; each kind maps
// to exactly one HTTP status code.
type Kind int

const (
	NotFound Kind = iota
	BadRequest
	Unauthorized
	Forbidden
	ServiceUnavailable
	InternalServerError
	RequestTimeout
)

// StatusCode returns the HTTP status code for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case ServiceUnavailable:
		return http.StatusServiceUnavailable
	case RequestTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// String returns the canonical message prefix for the kind.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "Not found"
	case BadRequest:
		return "Bad request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case ServiceUnavailable:
		return "Service unavailable"
	case RequestTimeout:
		return "Request timeout"
	default:
		return "Internal server error"
	}
}

// Error pairs a Kind with a client-safe message and an optional internal
// detail. The detail holds raw transport or parse error text and reaches
// the client only in development mode.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
}

// New creates an Error with no detail.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithDetail returns a copy of the error carrying the given internal detail.
func (e *Error) WithDetail(detail string) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Detail: detail}
}

// Error formats the client-visible message, e.g.
// "Service unavailable: User Service unavailable".
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Response is the envelope for gateway-synthesized error responses.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Response builds the response payload. Details are included iff devMode
// is set and a detail string exists; otherwise the detail stays server-side.
func (e *Error) Response(devMode bool) Response {
	r := Response{
		Status:  e.Kind.StatusCode(),
		Message: e.Error(),
	}
	if devMode {
		r.Details = e.Detail
	}
	return r
}
