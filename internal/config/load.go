package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/accords-library/search-sync/internal/adapters/driven/config/file"
	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

// DefaultDotEnvFiles are read from the working directory, first one wins.
var DefaultDotEnvFiles = []string{".env.local", ".env"}

// Options controls Load.
type Options struct {
	// ConfigPath is the TOML file. Empty means file.DefaultPath().
	ConfigPath string
	// DotEnvFiles overrides DefaultDotEnvFiles. An empty non-nil slice
	// disables dotenv loading.
	DotEnvFiles []string
	// SkipValidate returns the merged settings even when incomplete.
	SkipValidate bool
	// Overrides apply last. Nil means no flag overrides.
	Overrides *Overrides
}

// Overrides holds command-line flag values. Only non-nil fields apply.
type Overrides struct {
	Verbose        *bool
	BatchSize      *int
	WebhookMode    *string
	RebuildOnStart *bool
	Listen         *string
}

// Load builds the settings with precedence:
// defaults → config file → environment (dotenv files fill unset variables) → overrides.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	dotenv := opts.DotEnvFiles
	if dotenv == nil {
		dotenv = DefaultDotEnvFiles
	}
	if err := loadDotEnvFiles(dotenv...); err != nil {
		return nil, fmt.Errorf("%w: load dotenv files: %w", domain.ErrInvalidInput, err)
	}

	path := opts.ConfigPath
	if path == "" {
		p, err := file.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	store, err := file.NewConfigStore(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := applyFile(&cfg, store); err != nil {
		return nil, err
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if opts.Overrides != nil {
		applyOverrides(&cfg, opts.Overrides)
	}

	if !opts.SkipValidate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// loadDotEnvFiles exports the variables of each file that are not already
// set. Missing files are skipped.
func loadDotEnvFiles(names ...string) error {
	for _, name := range names {
		values, err := godotenv.Read(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); exists {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyFile copies the keys present in the config file.
func applyFile(cfg *Config, store driven.ConfigStore) error {
	r := fileReader{store: store}

	r.str("meili.url", &cfg.Meili.URL)
	r.str("meili.master_key", &cfg.Meili.MasterKey)
	r.duration("meili.poll_interval", &cfg.Meili.PollInterval)

	r.str("payload.api_url", &cfg.Payload.APIURL)
	r.str("payload.user", &cfg.Payload.User)
	r.str("payload.password", &cfg.Payload.Password)
	r.duration("payload.timeout", &cfg.Payload.Timeout)
	r.float("payload.requests_per_second", &cfg.Payload.RequestsPerSecond)
	r.integer("payload.burst", &cfg.Payload.Burst)

	r.str("webhook.listen", &cfg.Webhook.Listen)
	if _, ok := store.Get("webhook.port"); ok {
		var port int
		r.integer("webhook.port", &port)
		if port > 0 {
			cfg.Webhook.Listen = ":" + strconv.Itoa(port)
		}
	}
	r.str("webhook.token", &cfg.Webhook.Token)
	var mode string
	if r.str("webhook.mode", &mode) {
		cfg.Webhook.Mode = domain.WebhookMode(mode)
	}
	r.boolean("webhook.rebuild_on_start", &cfg.Webhook.RebuildOnStart)

	r.str("rebuild.index_uid", &cfg.Rebuild.IndexUID)
	r.integer("rebuild.batch_size", &cfg.Rebuild.BatchSize)
	r.integer("rebuild.delete_concurrency", &cfg.Rebuild.DeleteConcurrency)

	r.boolean("history.enabled", &cfg.History.Enabled)
	r.str("history.data_dir", &cfg.History.DataDir)

	r.boolean("verbose", &cfg.Verbose)

	if len(r.errs) > 0 {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, store.Path(), errors.Join(r.errs...))
	}
	return nil
}

// fileReader reads typed values from a ConfigStore and collects type errors.
type fileReader struct {
	store driven.ConfigStore
	errs  []error
}

func (r *fileReader) mismatch(key string, want string, v any) {
	r.errs = append(r.errs, fmt.Errorf("%s: expected %s, got %T", key, want, v))
}

func (r *fileReader) str(key string, dst *string) bool {
	v, ok := r.store.Get(key)
	if !ok {
		return false
	}
	s, isString := v.(string)
	if !isString {
		r.mismatch(key, "string", v)
		return false
	}
	*dst = s
	return true
}

func (r *fileReader) integer(key string, dst *int) {
	v, ok := r.store.Get(key)
	if !ok {
		return
	}
	switch n := v.(type) {
	case int64:
		*dst = int(n)
	case int:
		*dst = n
	default:
		r.mismatch(key, "integer", v)
	}
}

func (r *fileReader) float(key string, dst *float64) {
	v, ok := r.store.Get(key)
	if !ok {
		return
	}
	switch n := v.(type) {
	case float64:
		*dst = n
	case int64:
		*dst = float64(n)
	case int:
		*dst = float64(n)
	default:
		r.mismatch(key, "number", v)
	}
}

func (r *fileReader) boolean(key string, dst *bool) {
	v, ok := r.store.Get(key)
	if !ok {
		return
	}
	b, isBool := v.(bool)
	if !isBool {
		r.mismatch(key, "boolean", v)
		return
	}
	*dst = b
}

// duration accepts Go duration strings ("30s") or whole seconds.
func (r *fileReader) duration(key string, dst *time.Duration) {
	v, ok := r.store.Get(key)
	if !ok {
		return
	}
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = parsed
	case int64:
		*dst = time.Duration(d) * time.Second
	default:
		r.mismatch(key, "duration", v)
	}
}

// applyEnv copies the environment variables that are set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", name, v))
			return
		}
		*dst = n
	}
	boolean := func(name string, dst *bool) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a boolean", name, v))
			return
		}
		*dst = b
	}

	str("MEILI_URL", &cfg.Meili.URL)
	str("MEILI_MASTER_KEY", &cfg.Meili.MasterKey)
	str("PAYLOAD_API_URL", &cfg.Payload.APIURL)
	str("PAYLOAD_USER", &cfg.Payload.User)
	str("PAYLOAD_PASSWORD", &cfg.Payload.Password)
	str("WEBHOOK_TOKEN", &cfg.Webhook.Token)

	var port int
	integer("PORT", &port)
	if port > 0 {
		cfg.Webhook.Listen = ":" + strconv.Itoa(port)
	}
	str("SEARCH_SYNC_LISTEN", &cfg.Webhook.Listen)

	var mode string
	str("SEARCH_SYNC_WEBHOOK_MODE", &mode)
	if mode != "" {
		cfg.Webhook.Mode = domain.WebhookMode(mode)
	}
	boolean("SEARCH_SYNC_REBUILD_ON_START", &cfg.Webhook.RebuildOnStart)
	str("SEARCH_SYNC_INDEX_UID", &cfg.Rebuild.IndexUID)
	integer("SEARCH_SYNC_BATCH_SIZE", &cfg.Rebuild.BatchSize)
	integer("SEARCH_SYNC_DELETE_CONCURRENCY", &cfg.Rebuild.DeleteConcurrency)
	boolean("SEARCH_SYNC_HISTORY", &cfg.History.Enabled)
	str("SEARCH_SYNC_DATA_DIR", &cfg.History.DataDir)
	boolean("SEARCH_SYNC_VERBOSE", &cfg.Verbose)

	if len(errs) > 0 {
		return fmt.Errorf("%w: environment: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}
	if o.BatchSize != nil {
		cfg.Rebuild.BatchSize = *o.BatchSize
	}
	if o.WebhookMode != nil {
		cfg.Webhook.Mode = domain.WebhookMode(*o.WebhookMode)
	}
	if o.RebuildOnStart != nil {
		cfg.Webhook.RebuildOnStart = *o.RebuildOnStart
	}
	if o.Listen != nil {
		cfg.Webhook.Listen = *o.Listen
	}
}
