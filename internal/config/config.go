// Package config loads transcheck settings from defaults, an optional YAML
// config file and TRANSCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/transcheck/internal/input"
	"github.com/valpere/transcheck/internal/logging"
	"github.com/valpere/transcheck/internal/policy"
)

const EnvPrefix = "TRANSCHECK"

type Config struct {
	Policy   PolicyConfig   `mapstructure:"policy"`
	Input    InputConfig    `mapstructure:"input"`
	Language LanguageConfig `mapstructure:"language"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// PolicyConfig selects a preset and optionally overrides parts of it.
type PolicyConfig struct {
	Preset string `mapstructure:"preset"`
	// Stopwords replaces the preset list when non-empty.
	Stopwords      []string `mapstructure:"stopwords"`
	ExtraStopwords []string `mapstructure:"extra_stopwords"`
	// FirstTokenAlwaysCounts overrides the preset when set.
	FirstTokenAlwaysCounts *bool  `mapstructure:"first_token_always_counts"`
	TerminalWord           string `mapstructure:"terminal_word"`
}

type InputConfig struct {
	Format       string `mapstructure:"format"`
	CSVHeader    bool   `mapstructure:"csv_header"`
	MinGroupSize int    `mapstructure:"min_group_size"`
	MaxGroupSize int    `mapstructure:"max_group_size"`
	StrictSize   bool   `mapstructure:"strict_size"`
}

type LanguageConfig struct {
	Check bool `mapstructure:"check"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
	Save bool   `mapstructure:"save"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Policy: PolicyConfig{
			Preset:       policy.DefaultPreset,
			TerminalWord: policy.DefaultTerminalWord,
		},
		Input: InputConfig{
			Format:       "json",
			MinGroupSize: input.DefaultMinGroupSize,
			MaxGroupSize: input.DefaultMaxGroupSize,
		},
		Store: StoreConfig{
			Path: "./data/transcheck.db",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  logging.LevelInfo,
			Format: logging.FormatText,
		},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("policy.preset", defaults.Policy.Preset)
	v.SetDefault("policy.stopwords", defaults.Policy.Stopwords)
	v.SetDefault("policy.extra_stopwords", defaults.Policy.ExtraStopwords)
	v.SetDefault("policy.terminal_word", defaults.Policy.TerminalWord)

	v.SetDefault("input.format", defaults.Input.Format)
	v.SetDefault("input.csv_header", defaults.Input.CSVHeader)
	v.SetDefault("input.min_group_size", defaults.Input.MinGroupSize)
	v.SetDefault("input.max_group_size", defaults.Input.MaxGroupSize)
	v.SetDefault("input.strict_size", defaults.Input.StrictSize)

	v.SetDefault("language.check", defaults.Language.Check)

	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("store.save", defaults.Store.Save)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.cors_origins", defaults.Server.CORSOrigins)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

// ConfigDir returns the per-user config directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "transcheck")
}

// Init wires defaults, the config file and the environment into v.
// cfgFile, when set, must exist; otherwise transcheck.yaml is looked up in
// the working directory and ConfigDir and may be absent.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("transcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default: unset means "use the preset's rule". Binding makes the
	// key visible to Unmarshal when it only comes from the environment.
	_ = v.BindEnv("policy.first_token_always_counts")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !slices.Contains(policy.Presets(), strings.ToLower(strings.TrimSpace(c.Policy.Preset))) {
		return fmt.Errorf("policy.preset: %w: %q", policy.ErrUnknownPreset, c.Policy.Preset)
	}
	switch strings.ToLower(c.Input.Format) {
	case "json", "csv":
	default:
		return fmt.Errorf("input.format: unknown format %q (want json or csv)", c.Input.Format)
	}
	if c.Input.MinGroupSize > 0 && c.Input.MaxGroupSize > 0 && c.Input.MinGroupSize > c.Input.MaxGroupSize {
		return fmt.Errorf("input.min_group_size (%d) exceeds input.max_group_size (%d)", c.Input.MinGroupSize, c.Input.MaxGroupSize)
	}
	return nil
}

// Build returns the effective counting policy.
func (c PolicyConfig) Build() (policy.Policy, error) {
	base, err := policy.Preset(c.Preset)
	if err != nil {
		return policy.Policy{}, err
	}

	customized := false
	words := base.Words()
	if len(c.Stopwords) > 0 {
		words = c.Stopwords
		customized = true
	}
	if len(c.ExtraStopwords) > 0 {
		customized = true
	}

	first := base.FirstTokenAlwaysCounts
	if c.FirstTokenAlwaysCounts != nil && *c.FirstTokenAlwaysCounts != first {
		first = *c.FirstTokenAlwaysCounts
		customized = true
	}

	terminal := base.TerminalWord
	if t := strings.TrimSpace(c.TerminalWord); t != "" && !strings.EqualFold(t, terminal) {
		terminal = t
		customized = true
	}

	name := base.Name
	if customized {
		name += "+custom"
	}
	return policy.New(name, words, first, terminal).WithStopwords(c.ExtraStopwords...), nil
}
