// Package config loads .milthm-collector.yaml configuration.
//
// Settings are resolved in this order (later wins):
//
//  1. built-in defaults (the Milthm Weblate project)
//  2. .milthm-collector.yaml in the project root, or an explicit --config file
//  3. WEBLATE_* environment variables
//  4. command-line flags (applied by the caller)
//
// The API token is never read from the YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MilthmLang/LanguageCollector/keyfilter"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".milthm-collector.yaml"

const (
	DefaultEndpoint  = "https://weblate.milthm.com/api"
	DefaultProject   = "milthm"
	DefaultOutputDir = "build/weblate"
)

// DefaultComponents is the fixed component list. Order matters: on
// duplicate keys the later component wins.
var DefaultComponents = []string{
	"noun-and-term",
	"guidance-manual",
	"main",
	"settings",
	"miscellaneous",
	"story",
	"template",
	"avg",
	"web",
	"configuration-comment",
	"events",
	"garden",
	"error",
}

// Environment variable names.
const (
	EnvToken           = "WEBLATE_TOKEN"
	EnvEndpoint        = "WEBLATE_ENDPOINT"
	EnvIgnoredKeys     = "WEBLATE_IGNORED_KEYS"
	EnvIgnoredKeywords = "WEBLATE_IGNORED_KEYWORDS"
)

// ErrMissingToken is matched by errors.Is when no API token was supplied.
var ErrMissingToken = errors.New("Weblate token can not be empty")

// ConfigError reports a missing or invalid setting.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config is the full collector configuration.
type Config struct {
	// Endpoint is the Weblate API root.
	Endpoint string `yaml:"endpoint,omitempty"`
	// Token is the Weblate API token (flag, env or credential store only).
	Token string `yaml:"-"`
	// Project is the Weblate project slug.
	Project string `yaml:"project,omitempty"`
	// Components are the component slugs, in merge order.
	Components []string `yaml:"components,omitempty"`
	// OutputDir receives __meta.json and one {lang}.json per language.
	OutputDir string `yaml:"output_dir,omitempty"`
	// IgnoredKeys are translation keys dropped by exact match.
	IgnoredKeys []string `yaml:"ignored_keys,omitempty"`
	// IgnoredKeywords drop every key containing them (case-insensitive).
	IgnoredKeywords []string `yaml:"ignored_keywords,omitempty"`
	// Concurrency bounds parallel language fetches (0 = one per language).
	Concurrency int `yaml:"concurrency,omitempty"`
	// Timeout is the per-request HTTP timeout (0 = none).
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:   DefaultEndpoint,
		Project:    DefaultProject,
		Components: append([]string(nil), DefaultComponents...),
		OutputDir:  DefaultOutputDir,
	}
}

// Load returns the defaults overlaid with the config file. If path is
// empty, rootDir/.milthm-collector.yaml is used when it exists. A relative
// output_dir is resolved against rootDir.
func Load(rootDir, path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(rootDir, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if cfg.OutputDir != "" && !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(rootDir, cfg.OutputDir)
	}
	return cfg, nil
}

// ApplyEnv overlays the WEBLATE_* variables found through getenv.
// List variables are split on commas and spaces.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		c.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := getenv(EnvIgnoredKeys); v != "" {
		c.IgnoredKeys = keyfilter.SplitList(v)
	}
	if v := getenv(EnvIgnoredKeywords); v != "" {
		c.IgnoredKeywords = keyfilter.SplitList(v)
	}
}

// Validate checks that the configuration can drive a collection run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return &ConfigError{Field: "token", Err: ErrMissingToken}
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return &ConfigError{Field: "endpoint", Err: errors.New("must not be empty")}
	}
	if strings.TrimSpace(c.Project) == "" {
		return &ConfigError{Field: "project", Err: errors.New("must not be empty")}
	}
	if len(c.Components) == 0 {
		return &ConfigError{Field: "components", Err: errors.New("at least one component is required")}
	}
	for i, comp := range c.Components {
		if strings.TrimSpace(comp) == "" {
			return &ConfigError{Field: "components", Err: fmt.Errorf("component #%d is empty", i+1)}
		}
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return &ConfigError{Field: "output_dir", Err: errors.New("must not be empty")}
	}
	if c.Concurrency < 0 {
		return &ConfigError{Field: "concurrency", Err: fmt.Errorf("must be >= 0, got %d", c.Concurrency)}
	}
	return nil
}

// Filter builds the key filter from the ignore lists.
func (c *Config) Filter() keyfilter.Filter {
	return keyfilter.New(c.IgnoredKeys, c.IgnoredKeywords)
}
