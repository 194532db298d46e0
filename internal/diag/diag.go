package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a non-fatal problem found while converting content
type Kind string

const (
	UnknownBlockType Kind = "unknown_block_type"
	MalformedBlock   Kind = "malformed_block"
	MissingSlug      Kind = "missing_slug"
)

// Warning is a diagnostic returned next to a produced value.
// Fields holds key/value pairs suitable for structured logging.
type Warning struct {
	Kind    Kind
	Message string
	Fields  []any
}

// New creates a warning of the given kind
func New(kind Kind, message string, fields ...any) Warning {
	return Warning{Kind: kind, Message: message, Fields: fields}
}

// String renders the warning as "kind: message key=value ..."
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(string(w.Kind))
	b.WriteString(": ")
	b.WriteString(w.Message)
	for i := 0; i+1 < len(w.Fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", w.Fields[i], w.Fields[i+1])
	}
	return b.String()
}

// Count returns how many warnings in ws have the given kind
func Count(ws []Warning, kind Kind) int {
	n := 0
	for _, w := range ws {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
