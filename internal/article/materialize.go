package article

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gerunddev/strapisync/internal/blocks"
	"github.com/gerunddev/strapisync/internal/diag"
)

// DateLayout is the front-matter date format, always UTC
const DateLayout = "2006-01-02 15:04:05"

// Front-matter keys
const (
	KeyTitle      = "title"
	KeyDate       = "date"
	KeyCategories = "categories"
	KeyImage      = "img"
)

var ErrMissingTimestamp = errors.New("timestamp is empty")

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	DateLayout,
	"2006-01-02",
}

// FormatError reports an article field that could not be interpreted
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Rendered is the file produced for one article
type Rendered struct {
	Slug        string
	Filename    string
	FrontMatter FrontMatter
	Body        string
	Warnings    []diag.Warning
}

// Content returns the complete file payload: front-matter block then body
func (r *Rendered) Content() string {
	return r.FrontMatter.String() + r.Body
}

// Materialize derives the file name and front-matter for a and renders its
// content. Relative asset URLs are resolved against baseURL.
func Materialize(a Article, baseURL string) (*Rendered, error) {
	date, err := FormatDate(a.PublishedAt)
	if err != nil {
		return nil, err
	}

	out := &Rendered{}

	slugValue, w := DeriveSlug(a)
	if w != nil {
		out.Warnings = append(out.Warnings, *w)
	}
	out.Slug = slugValue
	out.Filename = slugValue + ".md"

	out.FrontMatter.Set(KeyTitle, a.Title)
	out.FrontMatter.Set(KeyDate, date)
	if a.Category != nil {
		out.FrontMatter.Set(KeyCategories, a.Category.Name)
	}
	if a.CoverImage != nil && a.CoverImage.URL != "" {
		out.FrontMatter.Set(KeyImage, blocks.ResolveURL(baseURL, a.CoverImage.URL))
	}

	body := blocks.Render(a.Content, baseURL)
	out.Body = body.Markdown
	out.Warnings = append(out.Warnings, body.Warnings...)

	return out, nil
}

// FormatDate parses an ISO timestamp and formats it as DateLayout in UTC.
// Timestamps without a zone are taken as UTC.
func FormatDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &FormatError{Field: "publishedAt", Value: value, Err: ErrMissingTimestamp}
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC().Format(DateLayout), nil
		}
		lastErr = err
	}
	return "", &FormatError{Field: "publishedAt", Value: value, Err: lastErr}
}
