package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gerunddev/strapisync/internal/config"
	"github.com/gerunddev/strapisync/internal/diff"
	"github.com/gerunddev/strapisync/internal/preview"
	"github.com/gerunddev/strapisync/internal/state"
	"github.com/gerunddev/strapisync/internal/strapi"
	"github.com/gerunddev/strapisync/internal/styles"
	"github.com/gerunddev/strapisync/internal/sync"
	"github.com/gerunddev/strapisync/internal/tui"
)

type syncFlags struct {
	dryRun bool
	url    string
	out    string
	plain  bool
}

func newSyncCmd(g *globalFlags) *cobra.Command {
	f := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the output directory from Strapi",
		Long: `Fetch every published article and rewrite the output directory with one
Markdown file per article. Existing files in the directory are removed first.

With --dry-run nothing is written; the planned changes are shown as diffs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, g, f)
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().StringVar(&f.url, "url", "", "Strapi server URL (overrides config)")
	cmd.Flags().StringVar(&f.out, "out", "", "output directory (overrides config)")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "disable the spinner and colored diffs")

	return cmd
}

func runSync(cmd *cobra.Command, g *globalFlags, f *syncFlags) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if f.url != "" {
		cfg.StrapiURL = f.url
	}
	if f.out != "" {
		cfg.OutputDir = f.out
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := !f.plain && isTerminal(out)

	// The spinner owns the terminal, so console logging only goes to stderr
	// in plain mode.
	logOut := cmd.ErrOrStderr()
	if interactive {
		logOut = io.Discard
	}
	log, cleanup, err := newLogger(logOut, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	log.ConfigLoaded(cfg.StrapiURL, cfg.OutputDir, cfg.Timeout)

	client, err := strapi.NewClient(strapi.Options{
		BaseURL:    cfg.StrapiURL,
		Token:      cfg.APIToken,
		Collection: cfg.Collection,
		PageSize:   cfg.PageSize,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return err
	}

	syncer := sync.NewSyncer(cfg, client, log)

	manifestPath := config.ManifestPath()
	prev, err := state.Load(manifestPath)
	if err != nil {
		log.Warn("ignoring unreadable manifest", "path", manifestPath, "error", err)
	} else {
		syncer.SetPrevious(prev)
	}

	opts := sync.Options{DryRun: f.dryRun}

	var result *sync.SyncResult
	if interactive {
		result, err = tui.RunSync(cmd.Context(), syncer, cfg.StrapiURL, opts)
	} else {
		result, err = syncer.Sync(cmd.Context(), opts)
		if err == nil {
			fmt.Fprint(out, tui.Summary(result))
		}
	}

	if result != nil && result.Reset {
		if saveErr := result.Manifest.Save(manifestPath); saveErr != nil {
			log.Error("failed to save manifest", "path", manifestPath, "error", saveErr)
		}
	}
	if err != nil {
		return err
	}
	log.Info(result.String(), "run", result.RunID)

	if f.dryRun {
		printDiffs(out, result.Diffs, !interactive)
	}

	if result.Failed() {
		return fmt.Errorf("%d article(s) skipped", len(result.Skipped))
	}
	return nil
}

// printDiffs writes the planned change for every file a dry run would touch
func printDiffs(w io.Writer, diffs []diff.FileDiff, plain bool) {
	for _, d := range diffs {
		if !d.Changed() {
			continue
		}

		label, kind := "update", "updated"
		switch {
		case d.Removed:
			label, kind = "remove", "removed"
		case !d.Exists:
			label, kind = "create", "created"
		}

		if plain {
			fmt.Fprintf(w, "%s %s\n%s", label, d.Filename, d.Unified)
			continue
		}
		fmt.Fprintln(w, styles.ChangeStyle(kind).Render(label+" "+d.Filename))
		fmt.Fprint(w, diff.Pretty(d.Unified, preview.Options{}))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
