package render

import "strings"

// Markdown renders markdown content for terminal display using a pooled
// renderer.
func Markdown(content string, opts Options) (string, error) {
	renderer, release, err := borrow(opts)
	if err != nil {
		return "", err
	}
	defer release()

	return renderer.Render(content)
}

// MarkdownOrPlain renders content and falls back to the raw text when
// rendering fails. Trailing newlines added by glamour are trimmed.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
