package translit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLatin(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "chinese", input: "你好", expected: "ni hao"},
		{name: "latin untouched", input: "Hello World", expected: "Hello World"},
		{name: "mixed", input: "Go语言", expected: "Go yu yan"},
		{name: "han between latin", input: "A中B", expected: "A zhong B"},
		{name: "umlaut u", input: "绿色", expected: "lu se"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToLatin(tt.input))
		})
	}
}
