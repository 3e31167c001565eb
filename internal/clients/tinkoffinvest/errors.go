package tinkoffinvest

import (
	"errors"
	"fmt"
	"strings"
)

var ErrTokenRequired = errors.New("api token must be defined")

// ConfigurationError is an invalid input detected before any network call.
type ConfigurationError struct {
	Param   string
	Value   string
	Allowed []string
}

func newConfigurationError[T ~string](param, value string, allowed []T) *ConfigurationError {
	a := make([]string, len(allowed))
	for i, v := range allowed {
		a[i] = string(v)
	}
	return &ConfigurationError{Param: param, Value: value, Allowed: a}
}

func (e *ConfigurationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s %q", e.Param, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: should be one of [%s]", e.Param, e.Value, strings.Join(e.Allowed, ", "))
}

// AuthError means the session cannot become ready.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + e.Reason
	}
	return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError covers network failures, timeouts and malformed response bodies.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BrokerError is a non-success response with a broker-supplied diagnostic.
type BrokerError struct {
	Method     string
	Path       string
	StatusCode int
	Code       string
	Message    string
	TrackingID string
}

func (e *BrokerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	return fmt.Sprintf("%s %s: broker: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

func IsBrokerError(err error) bool {
	var bErr *BrokerError
	return errors.As(err, &bErr)
}

func IsConfigurationError(err error) bool {
	var cErr *ConfigurationError
	return errors.As(err, &cErr)
}
