package blocks

import (
	"strings"

	"github.com/gerunddev/strapisync/internal/diag"
)

const blockEnd = "\n\n"

// Result is the rendered Markdown together with anything that was skipped
type Result struct {
	Markdown string
	Warnings []diag.Warning
}

// Renderer turns block sequences into Markdown.
// BaseURL is prepended to relative image URLs.
type Renderer struct {
	BaseURL string
}

// NewRenderer creates a renderer resolving relative assets against baseURL
func NewRenderer(baseURL string) *Renderer {
	return &Renderer{BaseURL: baseURL}
}

// Render converts blocks using a renderer for baseURL
func Render(bs []Block, baseURL string) Result {
	return NewRenderer(baseURL).Render(bs)
}

// Render converts blocks to Markdown. Every rendered block ends with a blank
// line; unknown and malformed blocks are left out and reported as warnings.
func (r *Renderer) Render(bs []Block) Result {
	var (
		md       strings.Builder
		warnings []diag.Warning
	)

	for i, b := range bs {
		switch v := b.(type) {
		case Paragraph:
			md.WriteString(SpanText(v.Children))
		case Heading:
			md.WriteString(HeadingPrefix(v.Level))
			md.WriteString(SpanText(v.Children))
		case List:
			md.WriteString(r.renderList(v))
		case Quote:
			md.WriteString("> ")
			md.WriteString(SpanText(v.Children))
		case Image:
			md.WriteString("![")
			md.WriteString(v.AlternativeText)
			md.WriteString("](")
			md.WriteString(ResolveURL(r.BaseURL, v.URL))
			md.WriteString(")")
		case Code:
			md.WriteString(renderCode(v))
		case Malformed:
			warnings = append(warnings, diag.New(diag.MalformedBlock, "malformed block skipped",
				"index", i, "type", v.Type, "error", v.Err))
			continue
		case nil:
			continue
		default:
			warnings = append(warnings, diag.New(diag.UnknownBlockType, "unknown block type skipped",
				"index", i, "type", b.BlockType()))
			continue
		}
		md.WriteString(blockEnd)
	}

	return Result{Markdown: md.String(), Warnings: warnings}
}

// HeadingPrefix returns level hashes and a space. The level is not clamped;
// anything below one yields just the space.
func HeadingPrefix(level int) string {
	if level < 0 {
		level = 0
	}
	return strings.Repeat("#", level) + " "
}

// SpanText concatenates span text verbatim. Links become [text](url).
func SpanText(spans []Inline) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Type == "link" {
			b.WriteString("[")
			b.WriteString(SpanText(s.Children))
			b.WriteString("](")
			b.WriteString(s.URL)
			b.WriteString(")")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func (r *Renderer) renderList(l List) string {
	marker := "- "
	if l.Format == FormatOrdered {
		marker = "1. "
	}

	items := make([]string, 0, len(l.Children))
	for _, item := range l.Children {
		items = append(items, marker+SpanText(item.Children))
	}
	return strings.Join(items, "\n")
}

func renderCode(c Code) string {
	lines := make([]string, 0, len(c.Children))
	for _, span := range c.Children {
		lines = append(lines, span.Text)
	}
	return "```" + c.Language + "\n" + strings.Join(lines, "\n") + "\n```"
}

// ResolveURL returns url unchanged when it already starts with "http",
// otherwise baseURL+url.
func ResolveURL(baseURL, url string) string {
	if strings.HasPrefix(url, "http") {
		return url
	}
	return baseURL + url
}
