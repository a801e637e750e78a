package config

import (
	"fmt"
	"strings"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// Validate checks the settings every command needs. Missing values are
// reported by the environment variable that sets them.
func (c *Config) Validate() error {
	var problems []string

	missing := func(value, env string) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, "missing "+env)
		}
	}
	missing(c.Meili.URL, "MEILI_URL")
	missing(c.Meili.MasterKey, "MEILI_MASTER_KEY")
	missing(c.Payload.APIURL, "PAYLOAD_API_URL")
	missing(c.Payload.User, "PAYLOAD_USER")
	missing(c.Payload.Password, "PAYLOAD_PASSWORD")

	if _, err := domain.ParseWebhookMode(string(c.Webhook.Mode)); err != nil {
		problems = append(problems, fmt.Sprintf("webhook.mode=%q; allowed: ack, rebuild", c.Webhook.Mode))
	}
	if c.Meili.PollInterval <= 0 {
		problems = append(problems, "meili.poll_interval must be positive")
	}
	if c.Payload.RequestsPerSecond < 0 {
		problems = append(problems, "payload.requests_per_second must not be negative")
	}
	if c.Rebuild.BatchSize < 0 {
		problems = append(problems, "rebuild.batch_size must not be negative")
	}
	if c.Rebuild.DeleteConcurrency < 1 {
		problems = append(problems, "rebuild.delete_concurrency must be at least 1")
	}
	if strings.TrimSpace(c.Rebuild.IndexUID) == "" {
		problems = append(problems, "rebuild.index_uid must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// ValidateServe additionally checks the webhook listener settings.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Webhook.Token) == "" {
		return fmt.Errorf("%w: missing WEBHOOK_TOKEN", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Webhook.Listen) == "" {
		return fmt.Errorf("%w: webhook.listen must not be empty", domain.ErrInvalidInput)
	}
	return nil
}
