// Package config handles configuration and credentials for landingchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultModel is the Gemini model the assistant talks to
	DefaultModel = "gemini-2.5-flash"

	// DefaultSystemInstruction frames every assistant session
	DefaultSystemInstruction = `You are a helpful AI assistant for the "Group Assignment Final" project. You answer questions about this specific project or web development in general. Keep your answers friendly, concise and in Vietnamese.`

	// DefaultDiscoveryURL is probed to load the API capability
	DefaultDiscoveryURL = "https://generativelanguage.googleapis.com/$discovery/rest?version=v1beta"

	// SiteURL and ProfileURL are the landing page links
	SiteURL    = "https://group-assignment-final.vercel.app"
	ProfileURL = "https://nhut0902-pr.github.io/Profile-/"

	// PreviewImageURL is the homepage screenshot shown on the landing page
	PreviewImageURL = "https://storage.googleapis.com/aistudio-hub-files/USER_UPLOAD/a380eb9a557b6f69911e8a937a0db8bd.png"
)

// APIKeyEnvVars are checked in order for the credential
var APIKeyEnvVars = []string{"API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"}

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`        // Enable word wrap in table cells
}

// Config represents the user configuration
type Config struct {
	Model             string `json:"model"`
	SystemInstruction string `json:"system_instruction"`
	// Language selects the UI catalog ("vi" or "en")
	Language string `json:"language"`
	// RequestTimeout bounds each initialization or send in seconds. 0 disables it.
	RequestTimeout int    `json:"request_timeout"`
	DiscoveryURL   string `json:"discovery_url"`
	// ProbeDiscovery fetches the discovery document before creating a client.
	// When false, capability loading always succeeds.
	ProbeDiscovery bool `json:"probe_discovery"`
	// VerifyCredential looks up the model with the credential during
	// initialization so that a bad key fails there instead of on first send.
	VerifyCredential bool           `json:"verify_credential"`
	CopyToClipboard  bool           `json:"copy_to_clipboard"`
	TUITheme         string         `json:"tui_theme,omitempty"`
	LogFile          string         `json:"log_file,omitempty"`
	Verbose          bool           `json:"verbose"`
	Markdown         MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Model:             DefaultModel,
		SystemInstruction: DefaultSystemInstruction,
		Language:          "vi",
		RequestTimeout:    60,
		DiscoveryURL:      DefaultDiscoveryURL,
		ProbeDiscovery:    true,
		VerifyCredential:  true,
		CopyToClipboard:   false,
		TUITheme:          "slate",
		Markdown:          DefaultMarkdownConfig(),
	}
}

// Timeout returns RequestTimeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// LogPath returns the configured log file or the default one in the config dir
func (c Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "landingchat.log"), nil
}

// GetConfigDir returns the configuration directory path.
// LANDINGCHAT_HOME overrides the default ~/.landingchat.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("LANDINGCHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".landingchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadAPIKey returns the first non-empty credential from APIKeyEnvVars.
// An empty result is not an error here; the client reports it.
func LoadAPIKey() string {
	for _, name := range APIKeyEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// SettableKeys lists the keys accepted by Set
func SettableKeys() []string {
	return []string{
		"model",
		"system_instruction",
		"language",
		"request_timeout",
		"discovery_url",
		"probe_discovery",
		"verify_credential",
		"copy_to_clipboard",
		"tui_theme",
		"log_file",
		"verbose",
		"markdown.style",
	}
}

// Set assigns a single setting from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "model":
		if value == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.Model = value
	case "system_instruction":
		c.SystemInstruction = value
	case "language":
		c.Language = value
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("request_timeout must be a non-negative integer, got %q", value)
		}
		c.RequestTimeout = n
	case "discovery_url":
		c.DiscoveryURL = value
	case "probe_discovery", "verify_credential", "copy_to_clipboard", "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		switch key {
		case "probe_discovery":
			c.ProbeDiscovery = b
		case "verify_credential":
			c.VerifyCredential = b
		case "copy_to_clipboard":
			c.CopyToClipboard = b
		case "verbose":
			c.Verbose = b
		}
	case "tui_theme":
		c.TUITheme = value
	case "log_file":
		c.LogFile = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return nil
}
