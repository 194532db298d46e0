package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/strapisync/internal/article"
	"github.com/gerunddev/strapisync/internal/styles"
)

func newRenderCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "render <article.json|->",
		Short: "Convert one article from JSON and print the Markdown file",
		Long: `Read a single Strapi article from a JSON file (or stdin with "-") and
print the file strapisync would write for it. Diagnostics go to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			a, err := article.Decode(data)
			if err != nil {
				return err
			}

			rendered, err := article.Materialize(a, baseURL)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			for _, w := range rendered.Warnings {
				fmt.Fprintln(stderr, styles.WarningStyle.Render("! "+w.String()))
			}
			fmt.Fprintln(stderr, styles.DimStyle.Render("# "+rendered.Filename))

			_, err = io.WriteString(cmd.OutOrStdout(), rendered.Content())
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "asset-url", "http://localhost:1337", "base URL for relative media paths")

	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
