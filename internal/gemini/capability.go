// Package gemini connects the chat controller to the Gemini API. Loading the
// capability probes the API discovery document; sessions are genai chats.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/nhut0902/landingchat/internal/chat"
	"github.com/nhut0902/landingchat/internal/config"
	apierrors "github.com/nhut0902/landingchat/internal/errors"
)

// maxDiscoveryBytes caps how much of the discovery document is read
const maxDiscoveryBytes = 8 << 20

// HTTPDoer is the part of tls_client.HttpClient the probe needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Capability implements chat.Capability for the Gemini API
type Capability struct {
	discoveryURL string
	probe        bool
	verify       bool
	doer         HTTPDoer
	logger       *zap.Logger
}

var _ chat.Capability = (*Capability)(nil)

// CapabilityOption is a function that configures the capability
type CapabilityOption func(*Capability)

// WithDiscoveryURL sets the discovery document URL to probe
func WithDiscoveryURL(url string) CapabilityOption {
	return func(c *Capability) {
		if url != "" {
			c.discoveryURL = url
		}
	}
}

// WithProbe enables or disables the discovery probe
func WithProbe(enabled bool) CapabilityOption {
	return func(c *Capability) {
		c.probe = enabled
	}
}

// WithCredentialCheck makes NewSession look the model up with the credential
func WithCredentialCheck(enabled bool) CapabilityOption {
	return func(c *Capability) {
		c.verify = enabled
	}
}

// WithHTTPDoer replaces the TLS client used for the probe
func WithHTTPDoer(doer HTTPDoer) CapabilityOption {
	return func(c *Capability) {
		c.doer = doer
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) CapabilityOption {
	return func(c *Capability) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCapability creates the Gemini capability
func NewCapability(opts ...CapabilityOption) *Capability {
	c := &Capability{
		discoveryURL: config.DefaultDiscoveryURL,
		probe:        true,
		verify:       true,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds the capability from user configuration
func FromConfig(cfg config.Config, logger *zap.Logger) *Capability {
	return NewCapability(
		WithDiscoveryURL(cfg.DiscoveryURL),
		WithProbe(cfg.ProbeDiscovery),
		WithCredentialCheck(cfg.VerifyCredential),
		WithLogger(logger),
	)
}

// Load probes the discovery document and returns a Library bound to the API
// root and version it advertises. Every failure is a CapabilityLoadError.
func (c *Capability) Load(ctx context.Context) (chat.Library, error) {
	if !c.probe {
		return &Library{verify: c.verify, logger: c.logger}, nil
	}

	doer := c.doer
	if doer == nil {
		client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
			tls_client.WithTimeoutSeconds(30),
			tls_client.WithClientProfile(profiles.Chrome_120),
		)
		if err != nil {
			return nil, apierrors.NewCapabilityLoadError(c.discoveryURL, fmt.Errorf("failed to create HTTP client: %w", err))
		}
		doer = client
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.discoveryURL, nil)
	if err != nil {
		return nil, apierrors.NewCapabilityLoadError(c.discoveryURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doer.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apierrors.NewCapabilityLoadError(c.discoveryURL, apierrors.NewTimeoutError(ctx.Err().Error()))
		}
		if ctx.Err() != nil {
			return nil, apierrors.NewCapabilityLoadError(c.discoveryURL, ctx.Err())
		}
		return nil, apierrors.NewCapabilityLoadError(c.discoveryURL, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiscoveryBytes))
	if err != nil {
		return nil, apierrors.NewCapabilityLoadError(c.discoveryURL, fmt.Errorf("failed to read discovery document: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = truncate(string(body), 256)
		}
		return nil, apierrors.NewCapabilityLoadError(c.discoveryURL,
			apierrors.NewAPIError(resp.StatusCode, c.discoveryURL, msg))
	}

	doc, err := parseDiscovery(body)
	if err != nil {
		return nil, apierrors.NewCapabilityLoadError(c.discoveryURL, err)
	}

	c.logger.Debug("discovery document loaded",
		zap.String("root_url", doc.RootURL),
		zap.String("version", doc.Version))

	return &Library{
		baseURL:    doc.RootURL,
		apiVersion: doc.Version,
		verify:     c.verify,
		logger:     c.logger,
	}, nil
}

// discovery is what the capability needs from the discovery document
type discovery struct {
	RootURL string
	Version string
}

// parseDiscovery validates that the document describes a generative
// language API able to run chats.
func parseDiscovery(body []byte) (discovery, error) {
	if !gjson.ValidBytes(body) {
		return discovery{}, apierrors.ErrNoContent
	}

	doc := gjson.ParseBytes(body)
	if !doc.Get("resources.models.methods.generateContent").Exists() {
		return discovery{}, fmt.Errorf("discovery document %q does not offer models.generateContent",
			doc.Get("name").String())
	}

	return discovery{
		RootURL: doc.Get("rootUrl").String(),
		Version: doc.Get("version").String(),
	}, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
