package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhut0902/landingchat/internal/chat"
	"github.com/nhut0902/landingchat/internal/config"
	"github.com/nhut0902/landingchat/internal/i18n"
	"github.com/nhut0902/landingchat/internal/render"
)

// Message types for the TUI
type (
	// stateChangedMsg is sent whenever the controller reports a change
	stateChangedMsg struct{}
	// sessionSettledMsg is sent when the initialization started by opening
	// the panel has finished, successfully or not
	sessionSettledMsg struct{}
	replyMsg          struct {
		reply chat.Reply
		err   error
	}
	feedbackClearMsg struct{}
)

// Link is one outbound link on the landing page
type Link struct {
	Key   string
	Label i18n.Key
	URL   string
}

// Model is the landing page with its assistant panel
type Model struct {
	ctx     context.Context
	ctrl    *chat.Controller
	changes <-chan struct{}
	catalog *i18n.Catalog
	mdOpts  render.Options

	links      []Link
	previewURL string

	// Side effects, replaceable in tests
	openURL  func(string) error
	copyText func(string) error

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready           bool
	spinning        bool
	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
}

// ModelOption configures a Model
type ModelOption func(*Model)

// WithContext sets the context passed to controller operations
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithMarkdown sets the options used to render assistant replies
func WithMarkdown(opts render.Options) ModelOption {
	return func(m *Model) {
		m.mdOpts = opts
	}
}

// WithOpener replaces the browser opener
func WithOpener(open func(string) error) ModelOption {
	return func(m *Model) {
		m.openURL = open
	}
}

// WithCopier replaces the clipboard writer
func WithCopier(copyText func(string) error) ModelOption {
	return func(m *Model) {
		m.copyText = copyText
	}
}

// WithPreviewURL overrides the preview image location. An empty URL shows
// the fallback caption.
func WithPreviewURL(url string) ModelOption {
	return func(m *Model) {
		m.previewURL = url
	}
}

// NewModel creates the landing page model for ctrl
func NewModel(ctrl *chat.Controller, catalog *i18n.Catalog, opts ...ModelOption) Model {
	ta := textarea.New()
	ta.Placeholder = catalog.Text(i18n.InputPlaceholder)
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	ta.BlurredStyle.Placeholder = inputDisabledStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	m := Model{
		ctx:     context.Background(),
		ctrl:    ctrl,
		changes: ctrl.Subscribe(),
		catalog: catalog,
		mdOpts:  render.DefaultOptions(),
		links: []Link{
			{Key: "s", Label: i18n.VisitSite, URL: config.SiteURL},
			{Key: "p", Label: i18n.MyProfile, URL: config.ProfileURL},
		},
		previewURL:      config.PreviewImageURL,
		openURL:         OpenURL,
		copyText:        clipboard.WriteAll,
		textarea:        ta,
		spinner:         s,
		feedbackTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForChange(m.changes),
	)
}

// waitForChange blocks until the controller signals a change
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func waitForSettle(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return sessionSettledMsg{}
	}
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.updateViewport()

	case stateChangedMsg:
		cmds = append(cmds, m.refresh(), waitForChange(m.changes))

	case sessionSettledMsg:
		cmds = append(cmds, m.refresh())

	case replyMsg:
		cmds = append(cmds, m.refresh())

	case feedbackClearMsg:
		m.feedback = ""

	case spinner.TickMsg:
		if m.ctrl.State().Busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			m.spinning = false
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	state := m.ctrl.State()
	if !state.PanelOpen {
		return m.handleLandingKey(msg)
	}
	return m.handlePanelKey(msg, state)
}

func (m Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "c", "enter":
		return m.openPanel()

	case "s", "p":
		if link, ok := m.link(msg.String()); ok {
			return m.open(link)
		}

	case "S", "P":
		if link, ok := m.link(strings.ToLower(msg.String())); ok {
			return m.copy(link.URL)
		}
	}
	return m, nil
}

func (m Model) handlePanelKey(msg tea.KeyMsg, state chat.State) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.ClosePanel()
		m.textarea.Blur()
		return m, nil

	case "enter":
		if !m.ctrl.CanSubmit() {
			return m, nil
		}
		// The input clears once the controller accepts the message.
		cmd := tea.Batch(m.send(m.textarea.Value()), m.startSpinner())
		return m, cmd

	case "ctrl+y":
		text, ok := m.ctrl.LastReply()
		if !ok {
			m.feedback = m.catalog.Text(i18n.NothingToCopy)
			return m, clearFeedback(m.feedbackTimeout)
		}
		return m.copy(text)

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !state.InputEnabled() {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.ctrl.SetInput(m.textarea.Value())
	return m, cmd
}

func (m Model) openPanel() (tea.Model, tea.Cmd) {
	done := m.ctrl.OpenPanel(m.ctx)
	cmds := []tea.Cmd{m.refresh()}
	if done != nil {
		cmds = append(cmds, waitForSettle(done), m.startSpinner())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) link(k string) (Link, bool) {
	for _, l := range m.links {
		if l.Key == k {
			return l, true
		}
	}
	return Link{}, false
}

func (m Model) open(link Link) (tea.Model, tea.Cmd) {
	if err := m.openURL(link.URL); err != nil {
		m.feedback = m.catalog.Format(i18n.OpenLinkFailed, err)
		return m, clearFeedback(m.feedbackTimeout)
	}
	return m, nil
}

func (m Model) copy(text string) (tea.Model, tea.Cmd) {
	if err := m.copyText(text); err != nil {
		m.feedback = m.catalog.Format(i18n.CopyFailed, err)
	} else {
		m.feedback = m.catalog.Text(i18n.Copied)
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// send dispatches text on a command goroutine. The controller records the
// user entry before the exchange starts, so the transcript updates through
// the change subscription while the reply is pending.
func (m Model) send(text string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		reply, err := ctrl.SendMessage(ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// refresh pulls the controller state into the input and transcript views
func (m *Model) refresh() tea.Cmd {
	state := m.ctrl.State()

	if state.LastError != "" {
		m.textarea.Placeholder = m.catalog.Text(i18n.InputDisabled)
	} else {
		m.textarea.Placeholder = m.catalog.Text(i18n.InputPlaceholder)
	}

	if m.textarea.Value() != state.Input {
		m.textarea.SetValue(state.Input)
	}

	var cmd tea.Cmd
	if state.PanelOpen && state.InputEnabled() {
		cmd = m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
	if state.Busy {
		cmd = tea.Batch(cmd, m.startSpinner())
	}

	m.updateViewport()
	m.viewport.GotoBottom()
	return cmd
}

func (m *Model) layout() {
	panelChrome := 2 + 1 // border and title
	inputHeight := 4     // input panel with border
	statusHeight := 2

	vpHeight := m.height - panelChrome - inputHeight - statusHeight
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.contentWidth()

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = viewport.KeyMap{
			PageUp:   key.NewBinding(key.WithKeys("pgup")),
			PageDown: key.NewBinding(key.WithKeys("pgdown")),
		}
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// updateViewport renders the greeting, the transcript and any fatal error
// banner into the viewport
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	state := m.ctrl.State()
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	var content strings.Builder
	content.WriteString(m.renderAssistant(m.catalog.Text(i18n.Greeting), time.Time{}, bubbleWidth))

	for _, msg := range m.ctrl.Transcript() {
		content.WriteString("\n")
		if msg.Role == chat.RoleUser {
			content.WriteString(m.renderUser(msg, bubbleWidth))
		} else {
			content.WriteString(m.renderAssistant(msg.Text, msg.At, bubbleWidth))
		}
	}

	if state.LastError != "" {
		content.WriteString("\n")
		content.WriteString(bannerStyle.Width(bubbleWidth).Render("⚠ " + state.LastError))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m Model) renderUser(msg chat.Message, width int) string {
	label := userLabelStyle.Render(m.catalog.Text(i18n.UserLabel)) + stamp(msg.At)
	bubble := userBubbleStyle.Width(width).Render(msg.Text)
	return label + "\n" + bubble + "\n"
}

func (m Model) renderAssistant(text string, at time.Time, width int) string {
	label := assistantLabelStyle.Render("✦ "+m.catalog.Text(i18n.AssistantLabel)) + stamp(at)
	rendered := render.MarkdownOrPlain(text, m.mdOpts.WithWidth(width-4))
	bubble := assistantBubbleStyle.Width(width).Render(rendered)
	return label + "\n" + bubble + "\n"
}

func stamp(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return timestampStyle.Render(" · " + at.Format("15:04"))
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	state := m.ctrl.State()
	if !state.PanelOpen {
		return m.renderLanding()
	}
	return m.renderPanel(state)
}

func (m Model) renderPanel(state chat.State) string {
	width := m.contentWidth()

	title := panelTitleStyle.Render("✦ " + m.catalog.Text(i18n.PanelTitle))

	var input string
	if state.Busy {
		input = m.spinner.View() + loadingStyle.Render(" "+m.catalog.Text(i18n.Thinking)+"...")
	} else {
		input = m.textarea.View()
	}
	inputPanel := inputPanelStyle.Width(width - 2).Render(input)

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		inputPanel,
	)
	sections := []string{panelStyle.Width(width).Render(body)}

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}
	sections = append(sections, m.renderStatusBar(width, []shortcut{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", "Close"},
	}))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type shortcut struct {
	key  string
	desc string
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int, shortcuts []shortcut) string {
	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// Run starts the landing page TUI
func Run(ctx context.Context, ctrl *chat.Controller, catalog *i18n.Catalog, opts ...ModelOption) error {
	opts = append([]ModelOption{WithContext(ctx)}, opts...)
	m := NewModel(ctrl, catalog, opts...)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
