package article

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"

	"github.com/gerunddev/strapisync/internal/diag"
	"github.com/gerunddev/strapisync/internal/translit"
)

// DeriveSlug returns the slug used as the file name for a.
// An explicit slug wins; otherwise the title is transliterated, the id is
// appended and the result is normalized. The fallback reports a warning.
func DeriveSlug(a Article) (string, *diag.Warning) {
	if a.Slug != nil && *a.Slug != "" {
		return *a.Slug, nil
	}

	generated := Slugify(translit.ToLatin(a.Title) + " " + string(a.ID))
	w := diag.New(diag.MissingSlug, "slug is empty, generated from title and id",
		"title", a.Title, "slug", generated)
	return generated, &w
}

// Slugify lowercases s, folds it to ASCII and collapses every run of
// non-alphanumeric characters into a single "-", trimming both ends.
func Slugify(s string) string {
	strict := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return ' '
	}, s)
	return slug.Make(strict)
}
