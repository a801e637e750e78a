// Package config resolves the process settings of search-sync from
// defaults, the TOML config file, dotenv files, the environment and
// command-line flags.
package config

import (
	"time"

	"github.com/accords-library/search-sync/internal/adapters/driven/search/meilisearch"
	"github.com/accords-library/search-sync/internal/connectors/payload"
	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/services"
)

// Config holds every setting of the process.
type Config struct {
	Meili   MeiliConfig
	Payload PayloadConfig
	Webhook WebhookConfig
	Rebuild RebuildConfig
	History HistoryConfig
	Verbose bool
}

// MeiliConfig locates the search engine.
type MeiliConfig struct {
	URL          string
	MasterKey    string
	PollInterval time.Duration
}

// PayloadConfig locates the content backend and its service account.
type PayloadConfig struct {
	APIURL            string
	User              string
	Password          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// WebhookConfig configures the listener run by "serve".
type WebhookConfig struct {
	Listen         string
	Token          string
	Mode           domain.WebhookMode
	RebuildOnStart bool
}

// RebuildConfig tunes the rebuild pipeline.
type RebuildConfig struct {
	IndexUID          string
	BatchSize         int
	DeleteConcurrency int
}

// HistoryConfig controls the rebuild run store.
type HistoryConfig struct {
	Enabled bool
	DataDir string
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Meili: MeiliConfig{
			PollInterval: meilisearch.DefaultPollInterval,
		},
		Payload: PayloadConfig{
			Timeout:           payload.DefaultTimeout,
			RequestsPerSecond: payload.DefaultRequestsPerSecond,
			Burst:             payload.DefaultBurst,
		},
		Webhook: WebhookConfig{
			Listen:         ":4000",
			Mode:           domain.WebhookAck,
			RebuildOnStart: true,
		},
		Rebuild: RebuildConfig{
			IndexUID:          domain.DefaultIndexUID,
			DeleteConcurrency: services.DefaultDeleteConcurrency,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Redacted returns a copy safe to print: secrets are replaced by a marker.
func (c Config) Redacted() Config {
	c.Meili.MasterKey = redact(c.Meili.MasterKey)
	c.Payload.Password = redact(c.Payload.Password)
	c.Webhook.Token = redact(c.Webhook.Token)
	return c
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "<redacted>"
}

// Tree returns the settings as nested tables keyed like the config file.
func (c Config) Tree() map[string]any {
	return map[string]any{
		"verbose": c.Verbose,
		"meili": map[string]any{
			"url":           c.Meili.URL,
			"master_key":    c.Meili.MasterKey,
			"poll_interval": c.Meili.PollInterval.String(),
		},
		"payload": map[string]any{
			"api_url":             c.Payload.APIURL,
			"user":                c.Payload.User,
			"password":            c.Payload.Password,
			"timeout":             c.Payload.Timeout.String(),
			"requests_per_second": c.Payload.RequestsPerSecond,
			"burst":               c.Payload.Burst,
		},
		"webhook": map[string]any{
			"listen":           c.Webhook.Listen,
			"token":            c.Webhook.Token,
			"mode":             string(c.Webhook.Mode),
			"rebuild_on_start": c.Webhook.RebuildOnStart,
		},
		"rebuild": map[string]any{
			"index_uid":          c.Rebuild.IndexUID,
			"batch_size":         c.Rebuild.BatchSize,
			"delete_concurrency": c.Rebuild.DeleteConcurrency,
		},
		"history": map[string]any{
			"enabled":  c.History.Enabled,
			"data_dir": c.History.DataDir,
		},
	}
}
