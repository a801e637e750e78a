package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accords-library/search-sync/internal/adapters/driving/webhook"
	"github.com/accords-library/search-sync/internal/config"
	"github.com/accords-library/search-sync/internal/core/domain"
)

var (
	serveMode             string
	serveListen           string
	serveNoRebuildOnStart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Rebuild once, then listen for webhook calls",
	Long: `Runs a rebuild at startup, then serves the webhook called by the Payload
CMS. Calls must be POST requests carrying "Authorization: Bearer <WEBHOOK_TOKEN>".

Webhook modes:
  ack      - acknowledge the call without touching the index (default)
  rebuild  - start a background rebuild; 409 while one is running`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveMode, "mode", "", "webhook mode: ack or rebuild")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default :$PORT or :4000)")
	serveCmd.Flags().BoolVar(&serveNoRebuildOnStart, "no-rebuild-on-start", false, "skip the startup rebuild")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	o := &config.Overrides{}
	if cmd.Flags().Changed("mode") {
		o.WebhookMode = &serveMode
	}
	if cmd.Flags().Changed("listen") {
		o.Listen = &serveListen
	}
	if cmd.Flags().Changed("no-rebuild-on-start") {
		onStart := !serveNoRebuildOnStart
		o.RebuildOnStart = &onStart
	}
	cfg, err := loadConfig(configOptions(cmd, o))
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	rebuilder, closeFn, err := openRebuilder(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	srv, err := webhook.NewServer(rebuilder, webhook.Config{
		Token: cfg.Webhook.Token,
		Mode:  cfg.Webhook.Mode,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if cfg.Webhook.RebuildOnStart {
		if _, err := rebuilder.Rebuild(ctx, domain.TriggerBoot); err != nil {
			return fmt.Errorf("startup rebuild failed: %w", err)
		}
	}

	cmd.Printf("Server started on %s\n", cfg.Webhook.Listen)
	return serveWebhook(ctx, srv, cfg.Webhook.Listen)
}
