package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/datakit/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Name != DefaultServiceName {
		t.Errorf("expected name %q, got %q", DefaultServiceName, cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults, got level %q", cfg.Logging.Level)
	}
	if cfg.Analysis.TracePrefix != "datakit" {
		t.Errorf("expected trace prefix 'datakit', got %q", cfg.Analysis.TracePrefix)
	}
	if cfg.Analysis.Telemetry.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %f", cfg.Analysis.Telemetry.SampleRate)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, "name: is required"},
		{"invalid environment", func(c *Config) { c.Environment = "qa" }, "environment: must be one of"},
		{"bad endpoint", func(c *Config) { c.Analysis.Telemetry.Endpoint = "nohost" }, "analysis.telemetry.endpoint"},
		{"sample rate out of range", func(c *Config) { c.Analysis.Telemetry.SampleRate = 1.5 }, "analysis.telemetry.sample_rate"},
		{"tracing without prefix", func(c *Config) {
			c.Analysis.Tracing = true
			c.Analysis.TracePrefix = ""
		}, "analysis.trace_prefix: is required"},
		{"bad logging level", func(c *Config) { c.Logging.Level = "loud" }, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datakit.yml", `
name: jobs
environment: staging
logging:
  level: debug
  format: json
analysis:
  tracing: true
  trace_prefix: jobs
  metrics: true
  telemetry:
    endpoint: "collector:4318"
    sample_rate: 0.25
`)

	cfg, err := Load("datakit", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "jobs" || cfg.Environment != "staging" {
		t.Errorf("unexpected base fields: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
	if !cfg.Analysis.Tracing || !cfg.Analysis.Metrics || cfg.Analysis.TracePrefix != "jobs" {
		t.Errorf("unexpected analysis: %+v", cfg.Analysis)
	}
	if cfg.Analysis.Telemetry.Endpoint != "collector:4318" || cfg.Analysis.Telemetry.SampleRate != 0.25 {
		t.Errorf("unexpected telemetry: %+v", cfg.Analysis.Telemetry)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datakit.yml", `
name: jobs
logging:
  level: info
`)
	t.Setenv("DATAKIT_LOGGING_LEVEL", "warn")
	t.Setenv("DATAKIT_ANALYSIS_LOG_STEPS", "true")
	t.Setenv("OTHER_LOGGING_LEVEL", "error")

	cfg, err := Load("datakit", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env override 'warn', got %q", cfg.Logging.Level)
	}
	if !cfg.Analysis.LogSteps {
		t.Error("expected log_steps from env")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "ENVFILE_ANALYSIS_METRICS=true\n")
	t.Cleanup(func() { os.Unsetenv("ENVFILE_ANALYSIS_METRICS") })

	cfg, err := Load("envfile", WithConfigFile(filepath.Join(dir, "none.yml")), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Analysis.Metrics {
		t.Error("expected metrics enabled from .env file")
	}
	if cfg.Name != "envfile" {
		t.Errorf("expected name to default to the service name, got %q", cfg.Name)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yml", "environment: qa\n")

	_, err := Load("bad", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none.env")))
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.yml", "name: [unterminated\n")

	_, err := Load("broken", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none.env")))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg Config
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolveSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/datakit.yml": true,
		"./config.yml":         true,
		"./.env":               true,
	}}
	files := resolve(fs, "datakit", Sources{})
	if files.ConfigFile != "./config/datakit.yml" {
		t.Errorf("expected ./config/datakit.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}
}

func TestResolveExplicitPaths(t *testing.T) {
	files := resolve(&mockFS{files: map[string]bool{"./config.yml": true}}, "datakit", Sources{ConfigFile: "/a.yml", EnvFile: "/b.env"})
	if files.ConfigFile != "/a.yml" || files.EnvFile != "/b.env" {
		t.Errorf("expected explicit paths to win, got %+v", files)
	}
}

func TestLoaderOptions(t *testing.T) {
	var l loader
	fs := &mockFS{}
	WithFiles(fs)(&l)
	WithConfigFile("/path/to/config.yml")(&l)
	WithEnvFile("/path/to/.env")(&l)
	WithEnvPrefix("APP_")(&l)
	if l.files != fs {
		t.Error("expected the custom filesystem to be set")
	}
	if l.src.ConfigFile != "/path/to/config.yml" || l.src.EnvFile != "/path/to/.env" || l.prefix != "APP_" {
		t.Errorf("unexpected loader: %+v", l)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("my-svc"); got != "MY_SVC_" {
		t.Errorf("expected MY_SVC_, got %q", got)
	}
}

func TestKeyVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"NAME", []string{"name"}},
		{"LOGGING_LEVEL", []string{"logging_level", "logging.level"}},
		{"ANALYSIS_TRACE_PREFIX", []string{"analysis_trace_prefix", "analysis.trace.prefix", "analysis.trace_prefix"}},
		{"A_B_C_D", []string{"a_b_c_d", "a.b.c.d", "a.b_c_d", "a.b.c_d"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := keyVariants(tc.in)
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLoadConfig_CustomPrefix(t *testing.T) {
	t.Setenv("APP_NAME", "from-env")
	t.Setenv("APP_", "ignored")
	t.Setenv("DATAKIT_NAME", "wrong-prefix")

	var cfg Config
	err := LoadConfig("datakit", &cfg,
		WithFiles(&mockFS{}),
		WithEnvPrefix("APP_"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("expected name from APP_NAME, got %q", cfg.Name)
	}
}
