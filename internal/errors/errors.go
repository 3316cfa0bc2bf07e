// Package errors provides the error taxonomy for the landing page assistant.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrCapabilityLoad      = errors.New("AI capability could not be loaded")
	ErrClientConfiguration = errors.New("AI client configuration failed")
	ErrSend                = errors.New("message exchange failed")
	ErrNoContent           = errors.New("no content in response")
	ErrMissingAPIKey       = errors.New("missing API key")

	// Rejections: the controller refused the operation and changed nothing.
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("another operation is in progress")
	ErrChatDisabled = errors.New("chat is disabled after a fatal initialization error")
)

// CapabilityLoadError means the remote capability could not be loaded at all,
// typically because the network is unavailable. Fatal for a controller.
type CapabilityLoadError struct {
	Endpoint string
	Cause    error
}

func (e *CapabilityLoadError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to load AI capability from %s", e.Endpoint)
	}
	return fmt.Sprintf("failed to load AI capability from %s: %v", e.Endpoint, e.Cause)
}

func (e *CapabilityLoadError) Unwrap() error { return e.Cause }

// Is allows comparison with sentinel errors
func (e *CapabilityLoadError) Is(target error) bool {
	if target == ErrCapabilityLoad {
		return true
	}
	_, ok := target.(*CapabilityLoadError)
	return ok
}

// NewCapabilityLoadError creates a new CapabilityLoadError
func NewCapabilityLoadError(endpoint string, cause error) *CapabilityLoadError {
	return &CapabilityLoadError{Endpoint: endpoint, Cause: cause}
}

// ClientConfigurationError means the client could not be constructed or
// authenticated. Fatal for a controller.
type ClientConfigurationError struct {
	Message string
	Cause   error
}

func (e *ClientConfigurationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("client configuration failed: %s", e.Message)
	}
	return fmt.Sprintf("client configuration failed: %s: %v", e.Message, e.Cause)
}

func (e *ClientConfigurationError) Unwrap() error { return e.Cause }

// Is allows comparison with sentinel errors
func (e *ClientConfigurationError) Is(target error) bool {
	if target == ErrClientConfiguration {
		return true
	}
	_, ok := target.(*ClientConfigurationError)
	return ok
}

// NewClientConfigurationError creates a new ClientConfigurationError
func NewClientConfigurationError(message string, cause error) *ClientConfigurationError {
	return &ClientConfigurationError{Message: message, Cause: cause}
}

// SendError is a single failed exchange on an established session.
type SendError struct {
	Cause error
}

func (e *SendError) Error() string {
	if e.Cause == nil {
		return "send failed"
	}
	return fmt.Sprintf("send failed: %v", e.Cause)
}

func (e *SendError) Unwrap() error { return e.Cause }

// Is allows comparison with sentinel errors
func (e *SendError) Is(target error) bool {
	if target == ErrSend {
		return true
	}
	_, ok := target.(*SendError)
	return ok
}

// NewSendError creates a new SendError
func NewSendError(cause error) *SendError {
	return &SendError{Cause: cause}
}

// APIError represents a failed call against the remote API
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// Is matches context.DeadlineExceeded so callers can test either way.
func (e *TimeoutError) Is(target error) bool {
	if target == context.DeadlineExceeded {
		return true
	}
	_, ok := target.(*TimeoutError)
	return ok
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// IsFatal reports whether err permanently disables chat for a controller.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCapabilityLoad) || errors.Is(err, ErrClientConfiguration)
}

// IsRejection reports whether err is one of the controller's no-op refusals.
func IsRejection(err error) bool {
	return errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrBusy) || errors.Is(err, ErrChatDisabled)
}

// IsTimeoutError reports whether err is (or wraps) a timeout.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// GetHTTPStatus returns the HTTP status carried by an APIError in the chain, or 0.
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// CauseText returns the most specific human-readable text for err: the API
// message when an APIError is in the chain, otherwise the innermost cause.
func CauseText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var cfgErr *ClientConfigurationError
	if errors.As(err, &cfgErr) {
		if cfgErr.Cause != nil {
			return CauseText(cfgErr.Cause)
		}
		return cfgErr.Message
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// GetEndpoint returns the endpoint recorded in the chain, or "".
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Endpoint != "" {
		return apiErr.Endpoint
	}
	var loadErr *CapabilityLoadError
	if errors.As(err, &loadErr) {
		return loadErr.Endpoint
	}
	return ""
}
