// Package preview renders Markdown for the terminal.
package preview

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word-wrap width used by the CLI
const DefaultWidth = 120

// Options controls terminal rendering
type Options struct {
	Width int
	// Style is a glamour standard style name ("dark", "light", "notty", ...).
	// Empty selects one based on the terminal background.
	Style string
}

// Render formats markdown for terminal output. If glamour cannot build a
// renderer or fails on the input, the markdown is returned unchanged.
func Render(markdown string, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	style := glamour.WithAutoStyle()
	if opts.Style != "" {
		style = glamour.WithStandardStyle(opts.Style)
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return rendered
}

// StripFrontMatter returns the body of a generated post without its leading
// "---" block, so glamour does not render it as a rule and paragraph.
func StripFrontMatter(content string) (frontMatter, body string) {
	const delim = "---\n"
	if len(content) < len(delim) || content[:len(delim)] != delim {
		return "", content
	}

	rest := content[len(delim):]
	for i := 0; i+len(delim) <= len(rest); i++ {
		if (i == 0 || rest[i-1] == '\n') && rest[i:i+len(delim)] == delim {
			fm := content[:len(delim)+i+len(delim)]
			body := rest[i+len(delim):]
			if len(body) > 0 && body[0] == '\n' {
				body = body[1:]
			}
			return fm, body
		}
	}
	return "", content
}
