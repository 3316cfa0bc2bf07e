// Package commands provides CLI commands for landingchat.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhut0902/landingchat/internal/chat"
	"github.com/nhut0902/landingchat/internal/config"
	"github.com/nhut0902/landingchat/internal/i18n"
	"github.com/nhut0902/landingchat/internal/logging"
	"github.com/nhut0902/landingchat/internal/render"
	"github.com/nhut0902/landingchat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags override the matching config settings for one invocation
type globalFlags struct {
	model   string
	lang    string
	timeout int
	verbose bool
}

func (f *globalFlags) apply(cfg *config.Config) {
	if f.model != "" {
		cfg.Model = f.model
	}
	if f.lang != "" {
		cfg.Language = f.lang
	}
	if f.timeout >= 0 {
		cfg.RequestTimeout = f.timeout
	}
	if f.verbose {
		cfg.Verbose = true
	}
}

// app is the wiring shared by the commands of one invocation
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	catalog *i18n.Catalog
	ctrl    *chat.Controller
}

func newApp(deps *Dependencies, flags *globalFlags) *app {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v, using defaults\n", err)
	}
	flags.apply(&cfg)

	logger := logging.NewOrNop(cfg)
	catalog := i18n.New(cfg.Language)

	spec := chat.SessionSpec{
		APIKey:            deps.APIKey(),
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
	}
	ctrl := chat.NewController(
		deps.NewCapability(cfg, logger),
		spec,
		chat.WithLogger(logger),
		chat.WithCatalog(catalog),
		chat.WithTimeout(cfg.Timeout()),
	)

	logger.Debug("starting",
		zap.String("version", Version),
		zap.String("model", cfg.Model),
		zap.String("language", catalog.Tag().String()))

	return &app{cfg: cfg, logger: logger, catalog: catalog, ctrl: ctrl}
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// NewRootCmd creates the root command and its subcommands
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	flags := &globalFlags{timeout: -1}

	cmd := &cobra.Command{
		Use:   "landingchat",
		Short: "Project landing page with an AI assistant",
		Long: `landingchat shows the Group Assignment Final landing page in the terminal,
with a Gemini-powered assistant panel that answers questions about the project.

The API key is read from API_KEY (or GEMINI_API_KEY, GOOGLE_API_KEY).

Examples:
  landingchat                           Open the landing page
  landingchat ask "Dự án này là gì?"     Ask a single question
  echo "What is it?" | landingchat ask  Read the question from stdin
  landingchat config set language en    Switch the interface to English`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "landingchat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runLanding(cmd, deps, flags)
		},
	}
	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&flags.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	cmd.PersistentFlags().StringVarP(&flags.lang, "lang", "l", "", "Interface language (vi, en)")
	cmd.PersistentFlags().IntVar(&flags.timeout, "timeout", -1, "Per-request timeout in seconds (0 disables)")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Write debug logs")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newAskCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

func runLanding(cmd *cobra.Command, deps *Dependencies, flags *globalFlags) error {
	if !deps.IsTTY() {
		return fmt.Errorf("the landing page needs an interactive terminal; use 'landingchat ask' instead")
	}

	a := newApp(deps, flags)
	defer a.close()

	if !render.SetTUITheme(a.cfg.TUITheme) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown theme '%s', using %s\n", a.cfg.TUITheme, render.GetTUITheme().Name)
	}
	tui.UpdateTheme()

	return deps.TUI.Run(cmd.Context(), a.ctrl, a.catalog,
		tui.WithMarkdown(render.OptionsFromConfig(a.cfg.Markdown, 0)),
		tui.WithCopier(deps.Clipboard),
	)
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}
