package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the landing page
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	// ErrorSurface backs the fatal error banner
	ErrorSurface lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// SlateTheme mirrors the web page: slate surfaces with cyan and blue accents
	SlateTheme = TUITheme{
		Name:        "slate",
		Description: "Slate - dark slate with cyan accents",

		Background: lipgloss.Color("#0f172a"), // slate-900
		Surface:    lipgloss.Color("#1e293b"), // slate-800
		Border:     lipgloss.Color("#334155"), // slate-700

		Primary:      lipgloss.Color("#06b6d4"), // cyan-500
		Secondary:    lipgloss.Color("#0891b2"), // cyan-600
		Accent:       lipgloss.Color("#3b82f6"), // blue-500
		Warning:      lipgloss.Color("#f59e0b"),
		Error:        lipgloss.Color("#ef4444"), // red-500
		ErrorSurface: lipgloss.Color("#7f1d1d"), // red-900

		Text:     lipgloss.Color("#f8fafc"),
		TextDim:  lipgloss.Color("#94a3b8"), // slate-400
		TextMute: lipgloss.Color("#475569"), // slate-600
	}

	// TokyoNightTheme is a dark theme with blue accents
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:      lipgloss.Color("#7aa2f7"),
		Secondary:    lipgloss.Color("#9ece6a"),
		Accent:       lipgloss.Color("#bb9af7"),
		Warning:      lipgloss.Color("#e0af68"),
		Error:        lipgloss.Color("#f7768e"),
		ErrorSurface: lipgloss.Color("#3b1d2a"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// LightTheme suits light terminal backgrounds
	LightTheme = TUITheme{
		Name:        "light",
		Description: "Light - slate text on light backgrounds",

		Background: lipgloss.Color("#f8fafc"),
		Surface:    lipgloss.Color("#e2e8f0"),
		Border:     lipgloss.Color("#cbd5e1"),

		Primary:      lipgloss.Color("#0e7490"),
		Secondary:    lipgloss.Color("#0891b2"),
		Accent:       lipgloss.Color("#1d4ed8"),
		Warning:      lipgloss.Color("#b45309"),
		Error:        lipgloss.Color("#b91c1c"),
		ErrorSurface: lipgloss.Color("#fee2e2"),

		Text:     lipgloss.Color("#0f172a"),
		TextDim:  lipgloss.Color("#475569"),
		TextMute: lipgloss.Color("#94a3b8"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = SlateTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		SlateTheme,
		TokyoNightTheme,
		LightTheme,
	}
}

// TUIThemeNames returns just the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
