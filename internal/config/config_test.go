package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intake.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Log:       LogConfig{Level: "info", Format: "text"},
		Server:    ServerConfig{Addr: ":8080"},
		Webhooks:  map[string]string{},
		Webhook:   WebhookConfig{Backoff: 500 * time.Millisecond},
		Telemetry: TelemetryConfig{Service: "form-intake"},
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
  format: json
webhooks:
  icp: https://hooks.example.com/icp-intake
  agent: https://hooks.example.com/agent
webhook:
  timeout: 5s
  retries: 2
  headers:
    X-Api-Key: ${INTAKE_TEST_SECRET}
forms:
  dir: ./forms
`)
	t.Setenv("INTAKE_SERVER_ADDR", ":9090")
	t.Setenv("INTAKE_WEBHOOKS_ICP", "https://override.example.com/icp")
	t.Setenv("INTAKE_INTAKE_SANITIZE", "true")
	t.Setenv("INTAKE_TEST_SECRET", "s3cret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected env override of server.addr, got %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	wantHooks := map[string]string{
		"icp":   "https://override.example.com/icp",
		"agent": "https://hooks.example.com/agent",
	}
	if diff := cmp.Diff(wantHooks, cfg.Webhooks); diff != "" {
		t.Fatalf("webhooks mismatch (-want +got):\n%s", diff)
	}
	if cfg.Webhook.Timeout != 5*time.Second || cfg.Webhook.Retries != 2 {
		t.Fatalf("unexpected webhook config %+v", cfg.Webhook)
	}
	if !cfg.Intake.Sanitize {
		t.Fatalf("expected sanitize from environment")
	}
	if cfg.Forms.Dir != "./forms" {
		t.Fatalf("unexpected forms dir %q", cfg.Forms.Dir)
	}
	if got := cfg.ExpandHeaders()["X-Api-Key"]; got != "s3cret" {
		t.Fatalf("expected expanded header, got %q", got)
	}
}

func TestLoad_EnvironmentMapKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INTAKE_WEBHOOKS_LEAD_GEN", "https://hooks.example.com/lead-gen")
	t.Setenv("INTAKE_WEBHOOKS_ICP", "https://hooks.example.com/icp")
	t.Setenv("INTAKE_WEBHOOK_HEADERS_X_API_KEY", "k")
	t.Setenv("INTAKE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wantHooks := map[string]string{
		"lead_gen": "https://hooks.example.com/lead-gen",
		"icp":      "https://hooks.example.com/icp",
	}
	if diff := cmp.Diff(wantHooks, cfg.Webhooks); diff != "" {
		t.Fatalf("webhooks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"x-api-key": "k"}, cfg.Webhook.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected log.level from environment, got %q", cfg.Log.Level)
	}
}

func TestWebhookEnv(t *testing.T) {
	if got := WebhookEnv("lead-gen"); got != "INTAKE_WEBHOOKS_LEAD_GEN" {
		t.Fatalf("unexpected env name %q", got)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"format":  "log:\n  format: xml\n",
		"webhook": "webhooks:\n  icp: ftp://example.com\n",
		"retries": "webhook:\n  retries: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
