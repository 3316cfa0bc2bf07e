package commands

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorText     = lipgloss.Color("#f8fafc")
	colorTextMute = lipgloss.Color("#475569")
	colorSuccess  = lipgloss.Color("#22c55e")
	colorPrimary  = lipgloss.Color("#06b6d4")
	colorError    = lipgloss.Color("#ef4444")

	// pulse cycles the frame color between cyan and blue
	pulse = []lipgloss.Color{"#06b6d4", "#22d3ee", "#67e8f9", "#60a5fa", "#3b82f6"}
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorTextMute).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// statusLine animates a single progress line on a terminal writer until it
// is halted or its context ends.
type statusLine struct {
	out    io.Writer
	label  string
	anim   spinner.Spinner
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func startStatus(ctx context.Context, out io.Writer, label string) *statusLine {
	ctx, cancel := context.WithCancel(ctx)
	s := &statusLine{
		out:    out,
		label:  lipgloss.NewStyle().Foreground(colorText).Render(label),
		anim:   spinner.Dot,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *statusLine) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.anim.FPS)
	defer ticker.Stop()

	fmt.Fprint(s.out, "\033[?25l")
	for frame := 0; ; frame++ {
		s.draw(frame)
		select {
		case <-ctx.Done():
			fmt.Fprint(s.out, "\r\033[K\033[?25h")
			return
		case <-ticker.C:
		}
	}
}

func (s *statusLine) draw(frame int) {
	glyph := lipgloss.NewStyle().
		Foreground(pulse[frame%len(pulse)]).
		Bold(true).
		Render(s.anim.Frames[frame%len(s.anim.Frames)])
	fmt.Fprintf(s.out, "\r\033[K%s%s", glyph, s.label)
}

// halt stops the animation and clears the line. Safe to call repeatedly.
func (s *statusLine) halt() {
	s.once.Do(s.cancel)
	<-s.done
}

// succeed halts and leaves a check mark with message in place of the line
func (s *statusLine) succeed(message string) {
	s.halt()
	check := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", check, lipgloss.NewStyle().Foreground(colorSuccess).Render(message))
}
