package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrorKind discriminates invocation failures.
type ErrorKind string

const (
	KindOverloaded          ErrorKind = "overloaded"
	KindOverloadedExhausted ErrorKind = "overloaded-exhausted"
	KindAuth                ErrorKind = "auth"
	KindQuota               ErrorKind = "quota"
	KindOther               ErrorKind = "other"
)

// Retryable reports whether another attempt may succeed.
func (k ErrorKind) Retryable() bool {
	return k == KindOverloaded
}

// ClassifyStatus maps an HTTP-like status code from a provider to an ErrorKind.
func ClassifyStatus(code int) ErrorKind {
	switch code {
	case http.StatusServiceUnavailable:
		return KindOverloaded
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindQuota
	default:
		return KindOther
	}
}

// InvocationError is returned by generators and the invoker.
type InvocationError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *InvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ai invocation failed (%s)", e.Kind)
	if e.Provider != "" {
		fmt.Fprintf(&b, " provider=%s", e.Provider)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}
	if e.Attempts > 0 {
		fmt.Fprintf(&b, " attempts=%d", e.Attempts)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrQuotaExceeded) match quota failures.
func (e *InvocationError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.Kind == KindQuota
}

// NewInvocationError classifies err by status code.
func NewInvocationError(provider string, status int, err error) *InvocationError {
	return &InvocationError{
		Kind:       ClassifyStatus(status),
		Provider:   provider,
		StatusCode: status,
		Err:        err,
	}
}

// KindOf returns the discriminator of err, or "" when err is not an invocation error.
func KindOf(err error) ErrorKind {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// ConfigurationError means no usable provider credentials are present.
// It is a setup problem and is always surfaced to the caller.
type ConfigurationError struct {
	Provider  string
	Missing   []string
	Available []string
	Err       error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		fmt.Fprintf(&b, "ai provider %q is not configured", e.Provider)
	} else {
		b.WriteString("no ai provider is configured")
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Available, ", "))
	} else {
		b.WriteString(" (available: none)")
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err carries a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ParseError means the model output did not contain a usable JSON object.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse model output: %s: %v", e.Reason, e.Err)
	}
	return "parse model output: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }
