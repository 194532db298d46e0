package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gerunddev/strapisync/internal/config"
	"github.com/gerunddev/strapisync/internal/logger"
	"github.com/gerunddev/strapisync/internal/strapi"
	"github.com/gerunddev/strapisync/internal/styles"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the strapisync command tree
func NewRootCmd(version string) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "strapisync",
		Short: "Publish Strapi articles as Hexo Markdown posts",
		Long: `strapisync fetches published articles from a Strapi server and
rebuilds a directory of Markdown posts with front-matter.

Run 'strapisync sync --dry-run' to see what would change.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "path to config file (default "+config.ConfigPath()+")")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newSyncCmd(g),
		newRenderCmd(),
		newPreviewCmd(g),
		newStatusCmd(g),
		newVersionCmd(version),
	)

	return root
}

// Execute runs the CLI and exits non-zero on failure
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd(version).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+describeError(err)))
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the global flag overrides
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

// newLogger builds the run logger for cfg, writing to w and to the
// configured log file
func newLogger(w io.Writer, cfg *config.Config) (*logger.Logger, func(), error) {
	log, cleanup, err := logger.NewFromConfig(w, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return log, cleanup, nil
}

// describeError turns client errors into a message a user can act on
func describeError(err error) string {
	var apiErr *strapi.APIError
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case 401, 403:
			return fmt.Sprintf("Strapi rejected the API token (%s). Check api_token or STRAPI_API_TOKEN.", apiErr.Status)
		case 404:
			return fmt.Sprintf("Strapi has no such collection (%s). Check the collection setting.", apiErr.Status)
		}
		return err.Error()
	case errors.Is(err, strapi.ErrUnreachable):
		return err.Error() + ". Is the Strapi server running?"
	case errors.Is(err, context.Canceled):
		return "Sync cancelled"
	}
	return err.Error()
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "strapisync v%s\n", version)
		},
	}
}
