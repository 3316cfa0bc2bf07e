package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nhut0902/landingchat/internal/chat"
	"github.com/nhut0902/landingchat/internal/config"
	"github.com/nhut0902/landingchat/internal/gemini"
	"github.com/nhut0902/landingchat/internal/i18n"
	"github.com/nhut0902/landingchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	Run(ctx context.Context, ctrl *chat.Controller, catalog *i18n.Catalog, opts ...tui.ModelOption) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewCapability builds the remote capability for a loaded config.
	NewCapability func(cfg config.Config, logger *zap.Logger) chat.Capability

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// IsTTY reports whether stdout is an interactive terminal.
	IsTTY func() bool

	// APIKey returns the credential, read once per command.
	APIKey func() string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) Run(ctx context.Context, ctrl *chat.Controller, catalog *i18n.Catalog, opts ...tui.ModelOption) error {
	return tui.Run(ctx, ctrl, catalog, opts...)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewCapability: func(cfg config.Config, logger *zap.Logger) chat.Capability {
			return gemini.FromConfig(cfg, logger)
		},
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
		IsTTY:     isStdoutTTY,
		APIKey:    config.LoadAPIKey,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// withDefaults fills unset fields from NewDependencies
func (d *Dependencies) withDefaults() *Dependencies {
	def := NewDependencies()
	if d == nil {
		return def
	}
	out := *d
	if out.NewCapability == nil {
		out.NewCapability = def.NewCapability
	}
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.Clipboard == nil {
		out.Clipboard = def.Clipboard
	}
	if out.IsTTY == nil {
		out.IsTTY = def.IsTTY
	}
	if out.APIKey == nil {
		out.APIKey = def.APIKey
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	return &out
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
