// Package cli provides the search-sync command line.
package cli

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/accords-library/search-sync/internal/adapters/driving/webhook"
	"github.com/accords-library/search-sync/internal/app"
	"github.com/accords-library/search-sync/internal/config"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
	"github.com/accords-library/search-sync/internal/core/ports/driving"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	configPath string
	verbose    bool
)

// Collaborators of the commands. Tests replace them.
var (
	loadConfig = config.Load

	openRebuilder = func(cfg *config.Config) (driving.Rebuilder, func() error, error) {
		a, err := app.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return a.Rebuilder, a.Close, nil
	}

	openHistory = func(cfg *config.Config) (driven.RebuildRunStore, func() error, error) {
		return app.OpenHistory(cfg)
	}

	isTerminal = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}

	runProgram = func(model tea.Model, out io.Writer) error {
		_, err := tea.NewProgram(model, tea.WithOutput(out)).Run()
		return err
	}

	serveWebhook = func(ctx context.Context, srv *webhook.Server, addr string) error {
		return srv.ListenAndServe(ctx, addr)
	}
)

var rootCmd = &cobra.Command{
	Use:   "search-sync",
	Short: "Rebuild the Meilisearch index from the Payload CMS",
	Long: `search-sync wipes a Meilisearch instance and rebuilds its search index
from every page, collectible, folder, media item, recorder and chronology
event published by the Payload CMS.

Settings are read from ~/.search-sync/config.toml, .env.local, .env and the
environment (MEILI_URL, MEILI_MASTER_KEY, PAYLOAD_API_URL, PAYLOAD_USER,
PAYLOAD_PASSWORD, WEBHOOK_TOKEN, PORT).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.search-sync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by "search-sync version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// configOptions builds Load options from the global flags and overrides.
func configOptions(cmd *cobra.Command, o *config.Overrides) config.Options {
	if o == nil {
		o = &config.Overrides{}
	}
	if cmd.Flags().Changed("verbose") {
		v := verbose
		o.Verbose = &v
	}
	return config.Options{ConfigPath: configPath, Overrides: o}
}
