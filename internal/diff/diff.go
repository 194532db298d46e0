package diff

import (
	"fmt"
	"os"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/strapisync/internal/preview"
)

// FileDiff is the planned change for one output file
type FileDiff struct {
	Filename string
	Exists   bool
	Removed  bool
	Unified  string // empty when the content is unchanged
}

// Changed reports whether the run would alter the file
func (d FileDiff) Changed() bool {
	return !d.Exists || d.Removed || d.Unified != ""
}

// Unified returns a unified diff from before to after, or "" when equal
func Unified(name, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("a/"+name, "b/"+name, before, edits))
}

// AgainstFile diffs the content currently at path with next.
// A missing file diffs against empty content.
func AgainstFile(path, name, next string) (FileDiff, error) {
	current, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileDiff{Filename: name, Unified: Unified(name, "", next)}, nil
		}
		return FileDiff{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return FileDiff{
		Filename: name,
		Exists:   true,
		Unified:  Unified(name, string(current), next),
	}, nil
}

// Pretty wraps a unified diff in a diff code fence and renders it for the
// terminal with glamour
func Pretty(unified string, opts preview.Options) string {
	if unified == "" {
		return ""
	}
	return preview.Render(fmt.Sprintf("```diff\n%s```\n", unified), opts)
}
