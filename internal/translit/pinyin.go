// Package translit converts titles in non-Latin scripts into a Latin
// phonetic form so they can be turned into slugs.
package translit

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var args = pinyin.NewArgs()

// ToLatin replaces every Han character with its toneless pinyin reading,
// with ü written as u.
// Each reading and every run of other text becomes one segment; segments are
// joined by single spaces.
//
//	ToLatin("你好")      == "ni hao"
//	ToLatin("Go语言入门") == "Go yu yan ru men"
func ToLatin(s string) string {
	var (
		segments []string
		run      strings.Builder
	)

	flush := func() {
		if run.Len() > 0 {
			segments = append(segments, run.String())
			run.Reset()
		}
	}

	for _, r := range s {
		if !unicode.Is(unicode.Han, r) {
			run.WriteRune(r)
			continue
		}
		flush()
		if reading := pinyin.LazyPinyin(string(r), args); len(reading) > 0 && reading[0] != "" {
			// Normal style spells ü as v
			segments = append(segments, strings.ReplaceAll(reading[0], "v", "u"))
		} else {
			segments = append(segments, string(r))
		}
	}
	flush()

	return strings.Join(segments, " ")
}
