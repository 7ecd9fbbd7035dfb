package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "futgate/pkg/exchange/binance"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadHydratesSections(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	dir := writeFiles(t, map[string]string{
		"main.yaml": `
Env: dev
DataPath: data
Exchange:
  File: exchange.yaml
Executor:
  File: executor.yaml
`,
		"exchange.yaml": `
default: binance_main
providers:
  binance_main:
    type: binance
    api_key: k
    api_secret: s
`,
		"executor.yaml": `
risk_fraction: 0.2
default_leverage: 3
max_leverage: 10
dry_run: false
`,
	})

	cfg, err := Load(filepath.Join(dir, "main.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "dev" {
		t.Fatalf("env got %q", cfg.Env)
	}
	if cfg.Exchange.Value == nil || cfg.Exchange.Value.Default != "binance_main" {
		t.Fatalf("exchange section not hydrated: %+v", cfg.Exchange.Value)
	}
	if cfg.Executor.Value == nil || cfg.Executor.Value.RiskFraction != 0.2 {
		t.Fatalf("executor section not hydrated: %+v", cfg.Executor.Value)
	}
	// dev env honours the executor's own dry_run setting
	if cfg.Executor.Value.DryRun {
		t.Fatalf("dev env must not force dry-run")
	}
	if cfg.BaseDir() != dir {
		t.Fatalf("base dir got %q want %q", cfg.BaseDir(), dir)
	}
}

func TestLoadTestEnvForcesDryRun(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	dir := writeFiles(t, map[string]string{
		"main.yaml": `
Env: test
Executor:
  File: executor.yaml
`,
		"executor.yaml": `
dry_run: false
`,
	})

	cfg, err := Load(filepath.Join(dir, "main.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Executor.Value.DryRun {
		t.Fatalf("test env must force dry-run")
	}
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	dir := writeFiles(t, map[string]string{
		"main.yaml": "Env: staging\n",
	})

	_, err := Load(filepath.Join(dir, "main.yaml"))
	if err == nil || !strings.Contains(err.Error(), "env must be one of") {
		t.Fatalf("expected env error, got %v", err)
	}
}

func TestResolveTickCachePath(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	dir := writeFiles(t, map[string]string{
		"main.yaml": "DataPath: data\nTickCachePath: ticks.json\n",
	})

	cfg, err := Load(filepath.Join(dir, "main.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(dir, "data", "ticks.json")
	if got := cfg.ResolveTickCachePath(); got != want {
		t.Fatalf("tick cache path got %q want %q", got, want)
	}

	cfg.TickCachePath = "/var/lib/futgate/ticks.json"
	if got := cfg.ResolveTickCachePath(); got != "/var/lib/futgate/ticks.json" {
		t.Fatalf("absolute path must pass through, got %q", got)
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{DataPath: "data", TickCachePath: "ticks.json"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Env != "test" {
		t.Fatalf("empty env must default to test, got %q", cfg.Env)
	}
	if !cfg.IsTestEnv() {
		t.Fatalf("defaulted env must report as test")
	}
}
