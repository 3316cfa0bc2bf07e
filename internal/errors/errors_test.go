package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCapabilityLoadError(t *testing.T) {
	cause := errors.New("network error")
	err := NewCapabilityLoadError("https://example.test/discovery", cause)

	expected := "failed to load AI capability from https://example.test/discovery: network error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrCapabilityLoad) {
		t.Error("Expected error to match ErrCapabilityLoad")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
	if errors.Is(err, ErrClientConfiguration) {
		t.Error("Expected error not to match ErrClientConfiguration")
	}
	if !IsFatal(err) {
		t.Error("Expected capability load error to be fatal")
	}
}

func TestClientConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClientConfigurationError
		expected string
	}{
		{
			name:     "with cause",
			err:      NewClientConfigurationError("create client", errors.New("bad key")),
			expected: "client configuration failed: create client: bad key",
		},
		{
			name:     "without cause",
			err:      NewClientConfigurationError("missing API key", nil),
			expected: "client configuration failed: missing API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Error() = %s, want %s", tt.err.Error(), tt.expected)
			}
			if !errors.Is(tt.err, ErrClientConfiguration) {
				t.Error("Expected error to match ErrClientConfiguration")
			}
			if !IsFatal(tt.err) {
				t.Error("Expected configuration error to be fatal")
			}
		})
	}
}

func TestSendError(t *testing.T) {
	err := NewSendError(errors.New("boom"))

	if err.Error() != "send failed: boom" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrSend) {
		t.Error("Expected error to match ErrSend")
	}
	if IsFatal(err) {
		t.Error("Send errors must not be fatal")
	}

	wrapped := fmt.Errorf("exchange: %w", err)
	var sendErr *SendError
	if !errors.As(wrapped, &sendErr) {
		t.Error("Expected errors.As to find SendError")
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "models.get", "API key not valid")

	expected := "API error [400] at models.get: API key not valid"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "models.get", "oops")
	if noStatus.Error() != "API error at models.get: oops" {
		t.Errorf("Error() = %s", noStatus.Error())
	}

	if GetHTTPStatus(fmt.Errorf("wrap: %w", err)) != 400 {
		t.Error("GetHTTPStatus should find the wrapped status")
	}
	if GetHTTPStatus(errors.New("plain")) != 0 {
		t.Error("GetHTTPStatus should be 0 for plain errors")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("send")

	if err.Error() != "request timed out: send" {
		t.Errorf("Error() = %s", err.Error())
	}
	if NewTimeoutError("").Error() != "request timed out" {
		t.Error("Unexpected default message")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Expected TimeoutError to match context.DeadlineExceeded")
	}
	if !IsTimeoutError(err) {
		t.Error("IsTimeoutError should be true")
	}
	if !IsTimeoutError(fmt.Errorf("ctx: %w", context.DeadlineExceeded)) {
		t.Error("IsTimeoutError should accept a raw deadline error")
	}
}

func TestIsRejection(t *testing.T) {
	for _, err := range []error{ErrEmptyMessage, ErrBusy, ErrChatDisabled} {
		if !IsRejection(err) {
			t.Errorf("IsRejection(%v) = false", err)
		}
	}
	if IsRejection(NewSendError(nil)) {
		t.Error("Send errors are not rejections")
	}
}

func TestCauseText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("network error"), "network error"},
		{"wrapped", fmt.Errorf("outer: %w", errors.New("inner")), "inner"},
		{
			name: "api error inside configuration error",
			err:  NewClientConfigurationError("verify", NewAPIError(400, "models.get", "API key not valid")),
			want: "API key not valid",
		},
		{
			name: "configuration error without cause",
			err:  NewClientConfigurationError("missing API key", nil),
			want: "missing API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CauseText(tt.err); got != tt.want {
				t.Errorf("CauseText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEndpoint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), ""},
		{"api error", NewSendError(NewAPIError(500, "generateContent", "boom")), "generateContent"},
		{"load error", NewCapabilityLoadError("https://example.test/discovery", errors.New("dial")), "https://example.test/discovery"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEndpoint(tt.err); got != tt.want {
				t.Errorf("GetEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}
