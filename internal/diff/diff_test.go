package diff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/strapisync/internal/preview"
)

func TestUnifiedEqual(t *testing.T) {
	assert.Empty(t, Unified("a.md", "same\n", "same\n"))
}

func TestUnifiedChanged(t *testing.T) {
	out := Unified("a.md", "one\ntwo\n", "one\nthree\n")
	assert.Contains(t, out, "--- a/a.md")
	assert.Contains(t, out, "+++ b/a.md")
	assert.Contains(t, out, "-two")
	assert.Contains(t, out, "+three")
}

func TestAgainstFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")

	d, err := AgainstFile(path, "post.md", "new\n")
	require.NoError(t, err)
	assert.False(t, d.Exists)
	assert.True(t, d.Changed())
	assert.Contains(t, d.Unified, "+new")

	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0644))
	d, err = AgainstFile(path, "post.md", "new\n")
	require.NoError(t, err)
	assert.True(t, d.Exists)
	assert.False(t, d.Changed())
}

func TestPretty(t *testing.T) {
	assert.Empty(t, Pretty("", preview.Options{}))

	out := Pretty(Unified("a.md", "x\n", "y\n"), preview.Options{Style: "notty"})
	assert.Contains(t, out, "+y")
}
