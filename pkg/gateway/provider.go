// Package gateway implements the Provider Gateway (spec §4.B): a uniform,
// rate-limited, retried, circuit-broken fan-out to external data providers.
//
// Providers are modeled as a capability interface rather than an
// inheritance hierarchy (spec §9 design note): each Provider declares the
// InformationTypes it can serve and the gateway dispatches by check_type,
// grounded on the teacher's pkg/capabilities (declared capabilities with
// resolvability) generalized here to provider dispatch.
package gateway

import (
	"context"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Request is the uniform outbound request to a provider.
type Request struct {
	CheckType domain.InformationType
	Subject   domain.Identifiers
	Params    map[string]any
}

// Result is a successful provider response.
type Result struct {
	ProviderID string
	CheckType  domain.InformationType
	Payload    map[string]any
	FetchedAt  time.Time
}

// ErrorKind classifies a ProviderError for retry/circuit decisions
// (spec §4.B, §6).
type ErrorKind string

const (
	ErrorTransient          ErrorKind = "transient"
	ErrorTemporary          ErrorKind = "temporary"
	ErrorPermanent          ErrorKind = "permanent"
	ErrorFatal              ErrorKind = "fatal"
	ErrorRateLimited        ErrorKind = "rate_limited"
	ErrorAuth               ErrorKind = "auth"
	ErrorInvalidRequest     ErrorKind = "invalid_request"
	ErrorTimeout            ErrorKind = "timeout"
	ErrorServiceUnavailable ErrorKind = "service_unavailable"
	ErrorData               ErrorKind = "data"
)

// Retryable reports whether this error kind should be retried by the
// gateway's retry policy (spec §4.B: "Retry transient and temporary; never
// permanent/fatal").
func (k ErrorKind) Retryable() bool {
	return k == ErrorTransient || k == ErrorTemporary || k == ErrorRateLimited || k == ErrorTimeout || k == ErrorServiceUnavailable
}

// ProviderError is the uniform outbound error shape (spec §6).
type ProviderError struct {
	Kind       ErrorKind
	Detail     string
	RetryAfter time.Duration // populated for ErrorRateLimited when the server suggests a delay
}

func (e *ProviderError) Error() string { return string(e.Kind) + ": " + e.Detail }

// Provider is the capability interface a concrete data source implements a
// subset of. The gateway dispatches by CheckType against Capabilities().
type Provider interface {
	ID() string
	// Capabilities lists the InformationTypes this provider can serve.
	Capabilities() []domain.InformationType
	// Call performs one raw (unwrapped) request to the provider.
	Call(ctx context.Context, req Request) (*Result, error)
}

// Capable reports whether p declares support for checkType.
func Capable(p Provider, checkType domain.InformationType) bool {
	for _, c := range p.Capabilities() {
		if c == checkType {
			return true
		}
	}
	return false
}
