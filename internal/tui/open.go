package tui

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

func init() {
	// The opener's own output would tear the alt screen.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// OpenURL opens url in the user's default browser
func OpenURL(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
