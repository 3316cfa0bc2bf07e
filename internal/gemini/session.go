package gemini

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/nhut0902/landingchat/internal/chat"
	apierrors "github.com/nhut0902/landingchat/internal/errors"
)

// Library creates genai chat sessions
type Library struct {
	baseURL    string
	apiVersion string
	verify     bool
	logger     *zap.Logger
}

var _ chat.Library = (*Library)(nil)

// NewSession constructs a genai client with the credential and starts a chat
// with the model and system instruction. Failures are ClientConfigurationErrors.
func (l *Library) NewSession(ctx context.Context, spec chat.SessionSpec) (chat.Session, error) {
	if strings.TrimSpace(spec.APIKey) == "" {
		return nil, apierrors.NewClientConfigurationError("missing API key", apierrors.ErrMissingAPIKey)
	}

	cfg := &genai.ClientConfig{
		APIKey:  spec.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if l.baseURL != "" {
		cfg.HTTPOptions.BaseURL = l.baseURL
	}
	if l.apiVersion != "" {
		cfg.HTTPOptions.APIVersion = l.apiVersion
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, apierrors.NewClientConfigurationError("create client", err)
	}

	if l.verify {
		if _, err := client.Models.Get(ctx, spec.Model, nil); err != nil {
			return nil, apierrors.NewClientConfigurationError("verify credential", convertError(err, "models.get"))
		}
	}

	var genCfg *genai.GenerateContentConfig
	if spec.SystemInstruction != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(spec.SystemInstruction, genai.RoleUser),
		}
	}

	c, err := client.Chats.Create(ctx, spec.Model, genCfg, nil)
	if err != nil {
		return nil, apierrors.NewClientConfigurationError("create chat", convertError(err, "chats.create"))
	}

	if l.logger != nil {
		l.logger.Debug("genai chat created", zap.String("model", spec.Model), zap.Bool("verified", l.verify))
	}
	return &Session{chat: c, model: spec.Model}, nil
}

// Session is a genai chat. The chat keeps the conversation history itself.
type Session struct {
	chat  *genai.Chat
	model string
}

var _ chat.Session = (*Session)(nil)

// Send sends one user message and returns the reply text
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", apierrors.NewSendError(convertError(err, "generateContent"))
	}

	out := resp.Text()
	if out == "" {
		return "", apierrors.NewSendError(apierrors.ErrNoContent)
	}
	return out, nil
}

// Model returns the model the session talks to
func (s *Session) Model() string {
	return s.model
}

// convertError maps genai and context errors onto the local taxonomy.
func convertError(err error, endpoint string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(endpoint)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		e := apierrors.NewAPIError(apiErr.Code, endpoint, apiErr.Message)
		e.Status = apiErr.Status
		return e
	}

	return err
}
