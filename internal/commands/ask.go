package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhut0902/landingchat/internal/i18n"
	"github.com/nhut0902/landingchat/internal/render"
)

type askFlags struct {
	file string
	raw  bool
	copy bool
}

func newAskCmd(deps *Dependencies, global *globalFlags) *cobra.Command {
	flags := &askFlags{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant a single question",
		Long: `Ask the project assistant one question and print its reply.

The question is taken from the arguments, from --file, or from stdin.
Output is rendered as markdown on a terminal and printed as plain text otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(cmd, flags, args)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, global, flags, question)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read the question from file")
	cmd.Flags().BoolVarP(&flags.raw, "raw", "r", false, "Print the reply without formatting")
	cmd.Flags().BoolVarP(&flags.copy, "copy", "c", false, "Copy the reply to the clipboard")

	return cmd
}

func readQuestion(cmd *cobra.Command, flags *askFlags, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil

	case flags.file != "":
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no question given")
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// runAsk drives the controller the way the panel does: open, wait for the
// session, send once
func runAsk(cmd *cobra.Command, deps *Dependencies, global *globalFlags, flags *askFlags, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

	a := newApp(deps, global)
	defer a.close()

	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()
	decorated := deps.IsTTY() && !flags.raw

	var status *statusLine
	if decorated {
		status = startStatus(ctx, stderr, "Connecting to Gemini")
	}
	if done := a.ctrl.OpenPanel(ctx); done != nil {
		<-done
	}
	defer a.ctrl.ClosePanel()

	if err := a.ctrl.Err(); err != nil {
		if status != nil {
			status.halt()
		}
		if msg := a.ctrl.State().LastError; msg != "" {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorError).Render(msg))
		}
		return err
	}
	if status != nil {
		status.succeed("Connected")
		status = startStatus(ctx, stderr, a.catalog.Text(i18n.Thinking))
	}

	reply, err := a.ctrl.SendMessage(ctx, question)
	if status != nil {
		if err != nil || !reply.OK() {
			status.halt()
		} else {
			status.succeed("Done")
		}
	}
	if err != nil {
		return err
	}

	// The transcript holds the reply, or the apology when the exchange failed
	text, _ := a.ctrl.LastReply()
	printReply(cmd.OutOrStdout(), a, text, decorated)

	if !reply.OK() {
		return reply.Err
	}

	if flags.copy || a.cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				"⚠ "+a.catalog.Format(i18n.CopyFailed, err)))
		} else if decorated {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				"✓ "+a.catalog.Text(i18n.Copied)))
		}
	}
	return nil
}

func printReply(out io.Writer, a *app, text string, decorated bool) {
	if !decorated {
		fmt.Fprintln(out, text)
		return
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(out, assistantLabelStyle.Render("✦ "+a.catalog.Text(i18n.AssistantLabel)))

	rendered := render.MarkdownOrPlain(text, render.OptionsFromConfig(a.cfg.Markdown, contentWidth))
	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
}
