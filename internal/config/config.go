package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read into the configuration.
// INTAKE_WEBHOOKS_ICP maps to webhooks.icp.
const EnvPrefix = "INTAKE_"

// DefaultFile is read when present and no explicit path is given.
const DefaultFile = "intake.yaml"

type Config struct {
	Log       LogConfig         `koanf:"log"`
	Server    ServerConfig      `koanf:"server"`
	Webhooks  map[string]string `koanf:"webhooks"`
	Webhook   WebhookConfig     `koanf:"webhook"`
	Forms     FormsConfig       `koanf:"forms"`
	Intake    IntakeConfig      `koanf:"intake"`
	Telemetry TelemetryConfig   `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
	File   string `koanf:"file"`   // optional JSON log file
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// WebhookConfig tunes the outbound client. Zero timeout and zero retries keep
// the single unbounded POST.
type WebhookConfig struct {
	Timeout time.Duration     `koanf:"timeout"`
	Retries int               `koanf:"retries"`
	Backoff time.Duration     `koanf:"backoff"`
	Headers map[string]string `koanf:"headers"`
}

type FormsConfig struct {
	Dir string `koanf:"dir"` // extra form definitions (.yaml, .yml, .json)
}

type IntakeConfig struct {
	Sanitize bool `koanf:"sanitize"`
}

type TelemetryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Service string `koanf:"service"`
}

var defaults = map[string]any{
	"log.level":         "info",
	"log.format":        "text",
	"server.addr":       ":8080",
	"webhook.timeout":   "0s",
	"webhook.retries":   0,
	"webhook.backoff":   "500ms",
	"intake.sanitize":   false,
	"telemetry.enabled": false,
	"telemetry.service": "form-intake",
}

// Load reads path (or DefaultFile when path is empty and the file exists),
// then overlays INTAKE_ environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("config: default %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Webhooks = normalizeKeys(cfg.Webhooks)
	return &cfg, cfg.Validate()
}

// Validate rejects values the services cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Webhook.Retries < 0 {
		return fmt.Errorf("config: webhook.retries must not be negative")
	}
	if c.Webhook.Timeout < 0 {
		return fmt.Errorf("config: webhook.timeout must not be negative")
	}
	for id, url := range c.Webhooks {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("config: webhooks.%s must be an http(s) URL", id)
		}
	}
	return nil
}

// envKey maps INTAKE_LOG_LEVEL to log.level. Webhook URLs and headers are
// maps whose own keys may contain underscores, so only their leading
// segments become dots: INTAKE_WEBHOOKS_LEAD_GEN is webhooks.lead_gen and
// INTAKE_WEBHOOK_HEADERS_X_API_KEY is webhook.headers.x-api-key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	switch {
	case strings.HasPrefix(key, "webhooks_"):
		return "webhooks." + strings.TrimPrefix(key, "webhooks_")
	case strings.HasPrefix(key, "webhook_headers_"):
		return "webhook.headers." + strings.ReplaceAll(strings.TrimPrefix(key, "webhook_headers_"), "_", "-")
	}
	return strings.ReplaceAll(key, "_", ".")
}

// WebhookEnv names the environment variable that sets the webhook for a form.
func WebhookEnv(formID string) string {
	return EnvPrefix + "WEBHOOKS_" + strings.ToUpper(strings.ReplaceAll(formID, "-", "_"))
}

func normalizeKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// ExpandHeaders replaces ${VAR} references in header values so secrets can
// stay in the environment.
func (c *Config) ExpandHeaders() map[string]string {
	out := make(map[string]string, len(c.Webhook.Headers))
	for k, v := range c.Webhook.Headers {
		out[k] = os.ExpandEnv(v)
	}
	return out
}
