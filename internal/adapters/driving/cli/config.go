package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as TOML (secrets redacted)",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	opts := configOptions(cmd, nil)
	opts.SkipValidate = true
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	out, err := toml.Marshal(cfg.Redacted().Tree())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	cmd.Print(string(out))

	if err := cfg.Validate(); err != nil {
		cmd.PrintErrf("\nWarning: %v\n", err)
	}
	return nil
}
