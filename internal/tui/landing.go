package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhut0902/landingchat/internal/i18n"
)

// renderLanding renders the landing page: hero, introduction, preview block,
// links and the chat hint
func (m Model) renderLanding() string {
	width := m.contentWidth()
	t := m.catalog.Text

	hero := heroStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(t(i18n.LandingTitle)),
		taglineStyle.Render(t(i18n.LandingTagline)),
	))

	intro := sectionStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render(t(i18n.IntroHeading)),
		bodyStyle.Width(width-4).Render(t(i18n.IntroBody)),
	))

	sections := []string{hero, intro, m.renderPreview(width), m.renderLinks(width)}

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Right,
		chatHintStyle.Render("💬 "+t(i18n.OpenChatHint)+"  [c]")))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}

	sections = append(sections, m.renderStatusBar(width, []shortcut{
		{"c", "Chat"},
		{"s/p", "Open link"},
		{"S/P", "Copy link"},
		{"q", "Quit"},
	}))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPreview shows the screenshot caption and its location. Terminals
// cannot show the image itself; without a location the fallback caption is
// shown instead.
func (m Model) renderPreview(width int) string {
	if m.previewURL == "" {
		return previewStyle.Width(width).Render(
			captionStyle.Render("🖼  " + m.catalog.Text(i18n.PreviewFallback)))
	}
	return previewStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Center,
		captionStyle.Render("🖼  "+m.catalog.Text(i18n.PreviewCaption)),
		linkStyle.Render(m.previewURL),
	))
}

func (m Model) renderLinks(width int) string {
	rows := make([]string, 0, len(m.links))
	for _, l := range m.links {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
			linkKeyStyle.Render(l.Key),
			bodyStyle.Render(" "+m.catalog.Text(l.Label)+"  "),
			linkStyle.Render(l.URL),
		))
	}
	return sectionStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
