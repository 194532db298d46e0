package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Block types understood by the renderer
const (
	TypeParagraph = "paragraph"
	TypeHeading   = "heading"
	TypeList      = "list"
	TypeQuote     = "quote"
	TypeImage     = "image"
	TypeCode      = "code"
)

const (
	FormatOrdered   = "ordered"
	FormatUnordered = "unordered"
)

// Inline is a text span inside a block. Links carry their own children.
type Inline struct {
	Type     string   `json:"type"`
	Text     string   `json:"text"`
	URL      string   `json:"url,omitempty"`
	Children []Inline `json:"children,omitempty"`
}

// Block is one element of a Strapi blocks field.
type Block interface {
	BlockType() string
}

type Paragraph struct {
	Children []Inline `json:"children"`
}

type Heading struct {
	Level    int      `json:"level"`
	Children []Inline `json:"children"`
}

type List struct {
	Format   string     `json:"format"`
	Children []ListItem `json:"children"`
}

// ListItem holds the spans of a single list entry
type ListItem struct {
	Children []Inline `json:"children"`
}

type Quote struct {
	Children []Inline `json:"children"`
}

// Image references an uploaded asset. URL may be relative to the CMS host.
type Image struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText"`
}

// Code is a fenced code block, one child span per line.
type Code struct {
	Language string   `json:"language"`
	Children []Inline `json:"children"`
}

// Unknown is a block whose type the renderer does not handle
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

// MaxHeadingLevel bounds the levels passed through to Markdown
const MaxHeadingLevel = 64

// Malformed is a block of a known type whose payload could not be decoded
type Malformed struct {
	Type string
	Err  error
}

func (Paragraph) BlockType() string   { return TypeParagraph }
func (Heading) BlockType() string     { return TypeHeading }
func (List) BlockType() string        { return TypeList }
func (Quote) BlockType() string       { return TypeQuote }
func (Image) BlockType() string       { return TypeImage }
func (Code) BlockType() string        { return TypeCode }
func (u Unknown) BlockType() string   { return u.Type }
func (m Malformed) BlockType() string { return m.Type }

// Blocks is an ordered block sequence. Decoding never fails on a single bad
// block, and anything other than a JSON array decodes to an empty sequence.
type Blocks []Block

func (bs *Blocks) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*bs = nil
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		*bs = nil
		return nil
	}

	out := make(Blocks, 0, len(raws))
	for _, raw := range raws {
		out = append(out, DecodeBlock(raw))
	}
	*bs = out
	return nil
}

// DecodeBlock converts one raw JSON block into its typed form
func DecodeBlock(raw json.RawMessage) Block {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Malformed{Type: "", Err: fmt.Errorf("decode block: %w", err)}
	}

	var (
		block Block
		err   error
	)
	switch head.Type {
	case TypeParagraph:
		var p Paragraph
		err = json.Unmarshal(raw, &p)
		block = p
	case TypeHeading:
		var h Heading
		err = json.Unmarshal(raw, &h)
		if err == nil && h.Level > MaxHeadingLevel {
			err = fmt.Errorf("level %d exceeds %d", h.Level, MaxHeadingLevel)
		}
		block = h
	case TypeList:
		var l List
		err = json.Unmarshal(raw, &l)
		block = l
	case TypeQuote:
		var q Quote
		err = json.Unmarshal(raw, &q)
		block = q
	case TypeImage:
		block, err = decodeImage(raw)
	case TypeCode:
		var c Code
		err = json.Unmarshal(raw, &c)
		block = c
	default:
		return Unknown{Type: head.Type, Raw: raw}
	}

	if err != nil {
		return Malformed{Type: head.Type, Err: fmt.Errorf("decode %s block: %w", head.Type, err)}
	}
	return block
}

// decodeImage reads the asset from the nested "image" object Strapi emits,
// falling back to top-level url/alternativeText.
func decodeImage(raw json.RawMessage) (Block, error) {
	var wire struct {
		Image           *Image `json:"image"`
		URL             string `json:"url"`
		AlternativeText string `json:"alternativeText"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}

	img := Image{URL: wire.URL, AlternativeText: wire.AlternativeText}
	if wire.Image != nil {
		img = *wire.Image
	}
	if img.URL == "" {
		return nil, fmt.Errorf("image has no url")
	}
	return img, nil
}
