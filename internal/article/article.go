package article

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gerunddev/strapisync/internal/blocks"
)

// ID is an article identifier. Strapi sends numbers; string ids are accepted too.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("article id must be a number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Category is the optional category relation of an article
type Category struct {
	Name string `json:"name"`
}

// Media is an uploaded asset reference
type Media struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
}

// Article is one entry of the articles collection as returned with populate=*
type Article struct {
	ID          ID            `json:"id"`
	DocumentID  string        `json:"documentId,omitempty"`
	Title       string        `json:"title"`
	Slug        *string       `json:"slug"`
	PublishedAt string        `json:"publishedAt"`
	Content     blocks.Blocks `json:"content"`
	Category    *Category     `json:"category"`
	CoverImage  *Media        `json:"coverImage"`
}

// Decode parses a single article from JSON. A single-entry API response
// wrapped in {"data": {...}} is unwrapped first.
func Decode(data []byte) (Article, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		data = envelope.Data
	}

	var a Article
	if err := json.Unmarshal(data, &a); err != nil {
		return Article{}, fmt.Errorf("failed to parse article: %w", err)
	}
	return a, nil
}
