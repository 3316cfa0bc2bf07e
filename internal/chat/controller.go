package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apierrors "github.com/nhut0902/landingchat/internal/errors"
	"github.com/nhut0902/landingchat/internal/i18n"
)

// Controller owns the assistant panel state. It creates at most one remote
// session over its lifetime and admits at most one outstanding operation
// (initialization or send); operations arriving while busy are rejected.
//
// A fatal initialization error is never cleared. Chat stays disabled until a
// new Controller is built.
type Controller struct {
	capability Capability
	spec       SessionSpec
	catalog    *i18n.Catalog
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time

	init singleflight.Group

	mu          sync.Mutex
	session     Session
	fatal       error
	lastError   string
	transcript  []Message
	panelOpen   bool
	input       string
	busy        bool
	subscribers []chan struct{}
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCatalog sets the catalog used for user-facing messages
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(c *Controller) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithTimeout bounds each initialization and each send. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithClock overrides the time source for message timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController creates a controller for capability. No remote work happens
// until the panel is opened or a message is sent.
func NewController(capability Capability, spec SessionSpec, opts ...Option) *Controller {
	c := &Controller{
		capability: capability,
		spec:       spec,
		catalog:    i18n.New("vi"),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenPanel marks the panel visible. If no session exists and no fatal error
// is recorded it starts EnsureSession in the background and returns a channel
// closed when that attempt settles. Otherwise it returns nil.
func (c *Controller) OpenPanel(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	c.panelOpen = true
	needsSession := c.session == nil && c.fatal == nil
	c.mu.Unlock()
	c.notify()

	if !needsSession {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.EnsureSession(ctx)
	}()
	return done
}

// ClosePanel hides the panel. Transcript, session and error are kept.
func (c *Controller) ClosePanel() {
	c.mu.Lock()
	c.panelOpen = false
	c.mu.Unlock()
	c.notify()
}

// EnsureSession makes sure the remote session exists. It returns nil at once
// when it does, and the cached fatal error when initialization already
// failed. Concurrent callers share a single attempt.
func (c *Controller) EnsureSession(ctx context.Context) error {
	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return nil
	}
	if c.fatal != nil {
		err := c.fatal
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	_, err, _ := c.init.Do("session", func() (any, error) {
		return nil, c.initialize(ctx)
	})
	return err
}

func (c *Controller) initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return nil
	}
	if c.fatal != nil {
		err := c.fatal
		c.mu.Unlock()
		return err
	}
	if c.busy {
		c.mu.Unlock()
		return apierrors.ErrBusy
	}
	c.busy = true
	c.lastError = ""
	c.mu.Unlock()
	c.notify()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	session, err := c.acquire(ctx)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.fatal = err
		c.lastError = c.describeFatal(err)
	} else {
		c.session = session
	}
	c.mu.Unlock()
	c.notify()

	return err
}

// acquire runs the two initialization steps and classifies their failures.
func (c *Controller) acquire(ctx context.Context) (Session, error) {
	c.logger.Debug("loading AI capability")
	lib, err := c.capability.Load(ctx)
	if err != nil {
		if !errors.Is(err, apierrors.ErrCapabilityLoad) {
			err = apierrors.NewCapabilityLoadError("", err)
		}
		c.logger.Error("failed to load AI capability", zap.Error(err))
		return nil, err
	}

	session, err := lib.NewSession(ctx, c.spec)
	if err != nil {
		if !errors.Is(err, apierrors.ErrClientConfiguration) {
			err = apierrors.NewClientConfigurationError("create session", err)
		}
		c.logger.Error("failed to initialize AI client",
			zap.String("model", c.spec.Model),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("chat session created", zap.String("model", c.spec.Model))
	return session, nil
}

func (c *Controller) describeFatal(err error) string {
	if errors.Is(err, apierrors.ErrCapabilityLoad) {
		return c.catalog.Text(i18n.CapabilityLoadFailed)
	}
	cause := apierrors.CauseText(err)
	if cause == "" {
		cause = c.catalog.Text(i18n.UnknownError)
	}
	return c.catalog.Format(i18n.ConfigurationFailed, cause)
}

// SendMessage sends text to the session, creating the session first if
// needed. Blank text, a busy controller, or a recorded fatal error reject the
// call with ErrEmptyMessage, ErrBusy or ErrChatDisabled and change nothing.
// A failed initialization is returned as is and records no message.
//
// Once dispatched, the user entry is appended immediately and exactly one
// assistant entry follows: the reply, or the fallback text when the exchange
// fails. Exchange failures are reported in the returned Reply, not as an error.
func (c *Controller) SendMessage(ctx context.Context, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, apierrors.ErrEmptyMessage
	}

	c.mu.Lock()
	switch {
	case c.busy:
		c.mu.Unlock()
		return Reply{}, apierrors.ErrBusy
	case c.fatal != nil:
		c.mu.Unlock()
		return Reply{}, apierrors.ErrChatDisabled
	}
	hasSession := c.session != nil
	c.mu.Unlock()

	if !hasSession {
		if err := c.EnsureSession(ctx); err != nil {
			return Reply{}, err
		}
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return Reply{}, apierrors.ErrBusy
	}
	session := c.session
	c.transcript = append(c.transcript, Message{Role: RoleUser, Text: text, At: c.now()})
	c.input = ""
	c.busy = true
	c.mu.Unlock()
	c.notify()

	reply := c.exchange(ctx, session, text)

	c.mu.Lock()
	c.transcript = append(c.transcript, reply.message(c.catalog.Text(i18n.SendFallback), c.now()))
	c.busy = false
	c.mu.Unlock()
	c.notify()

	return reply, nil
}

func (c *Controller) exchange(ctx context.Context, session Session, text string) Reply {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	started := c.now()
	out, err := session.Send(ctx, text)
	if err != nil {
		var timeoutErr *apierrors.TimeoutError
		if errors.Is(err, context.DeadlineExceeded) && !errors.As(err, &timeoutErr) {
			err = apierrors.NewTimeoutError(err.Error())
		}
		if !errors.Is(err, apierrors.ErrSend) {
			err = apierrors.NewSendError(err)
		}
		c.logger.Error("AI error", zap.Error(err))
		return Reply{Err: err}
	}

	c.logger.Debug("reply received",
		zap.Int("prompt_len", len(text)),
		zap.Int("reply_len", len(out)),
		zap.Duration("elapsed", c.now().Sub(started)))
	return Reply{Text: out}
}

// SetInput records the pending input text
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
	c.notify()
}

// Submit sends the pending input
func (c *Controller) Submit(ctx context.Context) (Reply, error) {
	c.mu.Lock()
	text := c.input
	c.mu.Unlock()
	return c.SendMessage(ctx, text)
}

// State returns a snapshot of the presentation state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		PanelOpen:  c.panelOpen,
		Input:      c.input,
		Busy:       c.busy,
		LastError:  c.lastError,
		HasSession: c.session != nil,
	}
}

// Transcript returns a copy of the transcript in insertion order
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// LastReply returns the text of the most recent assistant entry
func (c *Controller) LastReply() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.transcript) - 1; i >= 0; i-- {
		if c.transcript[i].Role == RoleAssistant {
			return c.transcript[i].Text, true
		}
	}
	return "", false
}

// Err returns the recorded fatal initialization error, if any
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fatal
}

// InputEnabled reports whether typing is allowed
func (c *Controller) InputEnabled() bool {
	return c.State().InputEnabled()
}

// CanSubmit reports whether the submit control is enabled
func (c *Controller) CanSubmit() bool {
	s := c.State()
	return s.InputEnabled() && strings.TrimSpace(s.Input) != ""
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications are coalesced: a slow reader sees one pending signal.
func (c *Controller) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

func (c *Controller) notify() {
	c.mu.Lock()
	subs := c.subscribers
	c.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (c *Controller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
