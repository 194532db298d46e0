package article

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/strapisync/internal/diag"
)

func strPtr(s string) *string { return &s }

func TestMaterializeChineseTitleWithoutSlug(t *testing.T) {
	a, err := Decode([]byte(`{"id":7,"title":"你好","slug":null,"publishedAt":"2024-01-02T03:04:05Z","content":[]}`))
	require.NoError(t, err)

	r, err := Materialize(a, "http://host")
	require.NoError(t, err)

	assert.Equal(t, "ni-hao-7", r.Slug)
	assert.Equal(t, "ni-hao-7.md", r.Filename)
	date, ok := r.FrontMatter.Get(KeyDate)
	require.True(t, ok)
	assert.Equal(t, "2024-01-02 03:04:05", date)
	assert.Equal(t, "", r.Body)

	require.Len(t, r.Warnings, 1)
	assert.Equal(t, diag.MissingSlug, r.Warnings[0].Kind)
	assert.Contains(t, r.Warnings[0].String(), "title=你好")
	assert.Contains(t, r.Warnings[0].String(), "slug=ni-hao-7")

	assert.Equal(t, "---\ntitle: \"你好\"\ndate: \"2024-01-02 03:04:05\"\n---\n\n", r.Content())
}

func TestMaterializeExplicitSlugVerbatim(t *testing.T) {
	a := Article{ID: "3", Title: "Hello", Slug: strPtr("My_Custom-Slug"), PublishedAt: "2024-05-06T07:08:09.123Z"}

	r, err := Materialize(a, "")
	require.NoError(t, err)
	assert.Equal(t, "My_Custom-Slug.md", r.Filename)
	assert.Empty(t, r.Warnings)
}

func TestMaterializeEmptySlugFallsBack(t *testing.T) {
	a := Article{ID: "12", Title: "Hello, World!", Slug: strPtr(""), PublishedAt: "2024-05-06T07:08:09Z"}

	r, err := Materialize(a, "")
	require.NoError(t, err)
	assert.Equal(t, "hello-world-12", r.Slug)
	assert.Equal(t, 1, diag.Count(r.Warnings, diag.MissingSlug))
}

func TestSlugUniqueAcrossIDs(t *testing.T) {
	a := Article{ID: "1", Title: "同名文章", PublishedAt: "2024-01-01T00:00:00Z"}
	b := a
	b.ID = "2"

	ra, err := Materialize(a, "")
	require.NoError(t, err)
	rb, err := Materialize(b, "")
	require.NoError(t, err)
	assert.NotEqual(t, ra.Filename, rb.Filename)
}

func TestFrontMatterOptionalKeys(t *testing.T) {
	tests := []struct {
		name     string
		article  Article
		expected []string
		img      string
	}{
		{
			name:     "no optional fields",
			article:  Article{ID: "1", Title: "t", PublishedAt: "2024-01-01T00:00:00Z"},
			expected: []string{KeyTitle, KeyDate},
		},
		{
			name: "category and relative cover",
			article: Article{ID: "1", Title: "t", PublishedAt: "2024-01-01T00:00:00Z",
				Category: &Category{Name: "Go"}, CoverImage: &Media{URL: "/uploads/c.jpg"}},
			expected: []string{KeyTitle, KeyDate, KeyCategories, KeyImage},
			img:      "http://host/uploads/c.jpg",
		},
		{
			name: "absolute cover only",
			article: Article{ID: "1", Title: "t", PublishedAt: "2024-01-01T00:00:00Z",
				CoverImage: &Media{URL: "https://cdn.example/c.jpg"}},
			expected: []string{KeyTitle, KeyDate, KeyImage},
			img:      "https://cdn.example/c.jpg",
		},
		{
			name: "empty category name still emitted",
			article: Article{ID: "1", Title: "t", PublishedAt: "2024-01-01T00:00:00Z",
				Category: &Category{}},
			expected: []string{KeyTitle, KeyDate, KeyCategories},
		},
		{
			name: "empty cover url omitted",
			article: Article{ID: "1", Title: "t", PublishedAt: "2024-01-01T00:00:00Z",
				CoverImage: &Media{}},
			expected: []string{KeyTitle, KeyDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Materialize(tt.article, "http://host")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r.FrontMatter.Keys())
			if tt.img != "" {
				img, _ := r.FrontMatter.Get(KeyImage)
				assert.Equal(t, tt.img, img)
			}
		})
	}
}

func TestMaterializeInvalidDate(t *testing.T) {
	for _, value := range []string{"", "yesterday", "2024-13-45T00:00:00Z"} {
		t.Run(value, func(t *testing.T) {
			_, err := Materialize(Article{ID: "1", Title: "t", PublishedAt: value}, "")
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "publishedAt", fe.Field)
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024-01-02T03:04:05Z", "2024-01-02 03:04:05"},
		{"2024-01-02T03:04:05.987Z", "2024-01-02 03:04:05"},
		{"2024-01-02T11:04:05+08:00", "2024-01-02 03:04:05"},
		{"2024-01-02T03:04:05", "2024-01-02 03:04:05"},
		{"2024-01-02 03:04:05", "2024-01-02 03:04:05"},
		{"2024-01-02", "2024-01-02 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FormatDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMaterializeIsPure(t *testing.T) {
	a, err := Decode([]byte(`{
		"id": 9, "title": "Pure", "publishedAt": "2024-03-03T03:03:03Z",
		"category": {"name": "notes"}, "coverImage": {"url": "/c.png"},
		"content": [
			{"type":"paragraph","children":[{"type":"text","text":"x"}]},
			{"type":"mystery"}
		]
	}`))
	require.NoError(t, err)

	first, err := Materialize(a, "http://host")
	require.NoError(t, err)
	second, err := Materialize(a, "http://host")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Content(), second.Content())
}

func TestFrontMatterParsesAsYAML(t *testing.T) {
	a := Article{
		ID:          "5",
		Title:       `Quotes "and" colons: <tags> & more`,
		PublishedAt: "2024-01-01T00:00:00Z",
		Category:    &Category{Name: "a: b"},
	}

	r, err := Materialize(a, "")
	require.NoError(t, err)

	block := strings.TrimPrefix(r.FrontMatter.String(), "---\n")
	block = strings.TrimSuffix(block, "---\n\n")

	var parsed map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(block), &parsed))
	assert.Equal(t, a.Title, parsed[KeyTitle])
	assert.Equal(t, "a: b", parsed[KeyCategories])
	assert.Contains(t, r.FrontMatter.String(), `<tags> & more`)
}

func TestDecodeMissingContent(t *testing.T) {
	for _, src := range []string{
		`{"id":1,"title":"t","publishedAt":"2024-01-01T00:00:00Z"}`,
		`{"id":1,"title":"t","publishedAt":"2024-01-01T00:00:00Z","content":null}`,
		`{"id":1,"title":"t","publishedAt":"2024-01-01T00:00:00Z","content":"legacy text"}`,
	} {
		a, err := Decode([]byte(src))
		require.NoError(t, err)
		r, err := Materialize(a, "")
		require.NoError(t, err)
		assert.Equal(t, "", r.Body)
	}
}

func TestDecodeEnvelopeAndStringID(t *testing.T) {
	a, err := Decode([]byte(`{"data":{"id":"abc","documentId":"d1","title":"t","publishedAt":"2024-01-01T00:00:00Z"}}`))
	require.NoError(t, err)
	assert.Equal(t, ID("abc"), a.ID)
	assert.Equal(t, "d1", a.DocumentID)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ni hao 7", "ni-hao-7"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"snake_case & symbols!!", "snake-case-symbols"},
		{"Crème brûlée 3", "creme-brulee-3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestFrontMatterSetKeepsOrder(t *testing.T) {
	var fm FrontMatter
	fm.Set("b", "1")
	fm.Set("a", "2")
	fm.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, fm.Keys())
	assert.Equal(t, 2, fm.Len())
	assert.Equal(t, "---\nb: \"3\"\na: \"2\"\n---\n\n", fm.String())
}

func TestMaterializeEmptyCategoryName(t *testing.T) {
	a, err := Decode([]byte(`{"id":1,"title":"t","slug":"t","publishedAt":"2024-01-01T00:00:00Z","category":{"name":""}}`))
	require.NoError(t, err)

	r, err := Materialize(a, "")
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: \"t\"\ndate: \"2024-01-01 00:00:00\"\ncategories: \"\"\n---\n\n", r.Content())
}

func TestDeriveSlugUmlautReading(t *testing.T) {
	slug, w := DeriveSlug(Article{ID: "3", Title: "绿色"})
	assert.Equal(t, "lu-se-3", slug)
	assert.NotNil(t, w)
}
