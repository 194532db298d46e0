package article

import (
	"bytes"
	"encoding/json"
	"strings"
)

const frontMatterDelimiter = "---\n"

// FrontMatter is an insertion-ordered string map
type FrontMatter struct {
	keys   []string
	values map[string]string
}

// Set adds key or replaces its value, keeping the original position
func (fm *FrontMatter) Set(key, value string) {
	if fm.values == nil {
		fm.values = make(map[string]string)
	}
	if _, exists := fm.values[key]; !exists {
		fm.keys = append(fm.keys, key)
	}
	fm.values[key] = value
}

// Get returns the value for key and whether it is present
func (fm *FrontMatter) Get(key string) (string, bool) {
	v, ok := fm.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (fm *FrontMatter) Keys() []string {
	return append([]string(nil), fm.keys...)
}

func (fm *FrontMatter) Len() int {
	return len(fm.keys)
}

// String encodes the block:
//
//	---
//	title: "Hello"
//	date: "2024-01-02 03:04:05"
//	---
//
// Values are JSON strings without HTML escaping, followed by a blank line.
func (fm *FrontMatter) String() string {
	var b strings.Builder
	b.WriteString(frontMatterDelimiter)
	for _, key := range fm.keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(jsonString(fm.values[key]))
		b.WriteString("\n")
	}
	b.WriteString(frontMatterDelimiter)
	b.WriteString("\n")
	return b.String()
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
