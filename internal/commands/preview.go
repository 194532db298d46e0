package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/strapisync/internal/preview"
	"github.com/gerunddev/strapisync/internal/styles"
	"github.com/gerunddev/strapisync/internal/sync"
)

func newPreviewCmd(g *globalFlags) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "preview <slug>",
		Short: "Render a generated post in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			name := strings.TrimSuffix(args[0], ".md") + ".md"
			if !sync.IsSafeFilename(name) {
				return fmt.Errorf("invalid slug %q", args[0])
			}

			data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
			if err != nil {
				return fmt.Errorf("no generated post %s in %s: %w", name, cfg.OutputDir, err)
			}

			fm, body := preview.StripFrontMatter(string(data))
			out := cmd.OutOrStdout()
			if fm != "" {
				fmt.Fprintln(out, styles.DimStyle.Render(strings.TrimSuffix(fm, "\n")))
			}
			style := ""
			if !isTerminal(out) {
				style = "notty"
			}
			fmt.Fprint(out, preview.Render(body, preview.Options{Width: width, Style: style}))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", preview.DefaultWidth, "word wrap width")

	return cmd
}
