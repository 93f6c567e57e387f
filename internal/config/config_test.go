package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/transcheck/internal/policy"
)

func loadFrom(t *testing.T, cfgFile string) *Config {
	t.Helper()
	v := viper.New()
	if err := Init(v, cfgFile); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := loadFrom(t, "")

	if cfg.Policy.Preset != policy.PresetRefined {
		t.Errorf("expected refined preset, got %q", cfg.Policy.Preset)
	}
	if cfg.Policy.FirstTokenAlwaysCounts != nil {
		t.Error("expected first-token override to be unset")
	}
	if cfg.Input.MinGroupSize != 2 || cfg.Input.MaxGroupSize != 4 {
		t.Errorf("unexpected group sizes: %+v", cfg.Input)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Log.Level != "INFO" {
		t.Errorf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
policy:
  preset: uniform
  extra_stopwords: ["ainsi"]
  first_token_always_counts: true
input:
  format: csv
  strict_size: true
server:
  addr: "127.0.0.1:9000"
  shutdown_timeout: 3s
log:
  level: debug
  format: json
`)

	cfg := loadFrom(t, path)

	if cfg.Policy.Preset != policy.PresetUniform {
		t.Errorf("expected uniform preset, got %q", cfg.Policy.Preset)
	}
	if cfg.Policy.FirstTokenAlwaysCounts == nil || !*cfg.Policy.FirstTokenAlwaysCounts {
		t.Error("expected first-token override true")
	}
	if cfg.Input.Format != "csv" || !cfg.Input.StrictSize {
		t.Errorf("unexpected input config: %+v", cfg.Input)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}

	p, err := cfg.Policy.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p.Name != "uniform+custom" {
		t.Errorf("expected customized name, got %q", p.Name)
	}
	if !p.FirstTokenAlwaysCounts || !p.IsStopword("ainsi") || !p.IsStopword("qui") {
		t.Errorf("unexpected policy: %+v", p)
	}
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRANSCHECK_POLICY_PRESET", "uniform")
	t.Setenv("TRANSCHECK_INPUT_MAX_GROUP_SIZE", "6")
	t.Setenv("TRANSCHECK_POLICY_FIRST_TOKEN_ALWAYS_COUNTS", "true")

	cfg := loadFrom(t, "")

	if cfg.Policy.Preset != policy.PresetUniform {
		t.Errorf("expected env preset, got %q", cfg.Policy.Preset)
	}
	if cfg.Input.MaxGroupSize != 6 {
		t.Errorf("expected max group size 6, got %d", cfg.Input.MaxGroupSize)
	}
	if cfg.Policy.FirstTokenAlwaysCounts == nil || !*cfg.Policy.FirstTokenAlwaysCounts {
		t.Error("expected env first-token override")
	}
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	if err := Init(v, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "unknown preset", mutate: func(c *Config) { c.Policy.Preset = "strict" }, wantErr: true},
		{name: "unknown input format", mutate: func(c *Config) { c.Input.Format = "xml" }, wantErr: true},
		{name: "min above max", mutate: func(c *Config) { c.Input.MinGroupSize = 5 }, wantErr: true},
		{name: "disabled max", mutate: func(c *Config) { c.Input.MinGroupSize = 5; c.Input.MaxGroupSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := Default()
	cfg.Policy.Preset = "strict"
	if err := cfg.Validate(); !errors.Is(err, policy.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPolicyBuild(t *testing.T) {
	p, err := Default().Policy.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p.Name != policy.PresetRefined {
		t.Errorf("expected plain preset name, got %q", p.Name)
	}

	replaced, err := PolicyConfig{Preset: "refined", Stopwords: []string{"ainsi"}, TerminalWord: "Finalement"}.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if replaced.IsStopword("le") || !replaced.IsStopword("ainsi") {
		t.Error("expected Stopwords to replace the preset list")
	}
	if replaced.TerminalWord != "finalement" {
		t.Errorf("expected normalized terminal word, got %q", replaced.TerminalWord)
	}

	if _, err := (PolicyConfig{Preset: "nope"}).Build(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
