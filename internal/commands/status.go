package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gerunddev/strapisync/internal/config"
	"github.com/gerunddev/strapisync/internal/state"
	"github.com/gerunddev/strapisync/internal/styles"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the files written by the last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			m, err := state.Load(config.ManifestPath())
			if err != nil {
				return fmt.Errorf("error loading manifest: %w", err)
			}

			var last *LastSync
			if cfg.LogFile != "" {
				last = ParseLogFile(cfg.LogFile, 500)
			}

			fmt.Fprint(cmd.OutOrStdout(), renderStatus(cfg, m, last))
			return nil
		},
	}
}

func renderStatus(cfg *config.Config, m *state.Manifest, last *LastSync) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("strapisync status"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Strapi:     %s\n", styles.ValueStyle.Render(cfg.StrapiURL)))
	b.WriteString(fmt.Sprintf("  Output dir: %s\n", styles.ValueStyle.Render(cfg.OutputDir)))

	if last != nil && !last.Time.IsZero() {
		b.WriteString(fmt.Sprintf("  Last log:   %s (%d written)\n",
			styles.ValueStyle.Render(last.Time.Format(time.DateTime)), last.Written))
	}
	b.WriteString("\n")

	if len(m.Files) == 0 {
		b.WriteString(styles.DimStyle.Render("No sync recorded yet. Run 'strapisync sync'."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  Run %s finished %s from %s\n\n",
		styles.HighlightStyle.Render(m.RunID),
		m.FinishedAt.Local().Format(time.DateTime),
		m.Source))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.BorderStyle).
		Headers("FILE", "ID", "TITLE", "SIZE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle
			}
			return styles.CellStyle
		})

	for _, name := range m.Filenames() {
		fs := m.Files[name]
		t.Row(name, fs.ArticleID, fs.Title, strconv.Itoa(fs.Size))
	}

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d file(s)", len(m.Files))))
	b.WriteString("\n")
	return b.String()
}
