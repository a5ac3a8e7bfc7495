// Package config loads the application configuration from an optional YAML file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

const (
	// DefaultDirName is the data directory created under the user's home.
	DefaultDirName = ".myimpact"
	// FileName is the config file looked up inside the data directory.
	FileName = "config.yaml"

	BackendCLI = "cli"
	BackendAPI = "api"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ConfigParseError indicates a configuration file exists but contains invalid content.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("invalid config at %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// Config is the application configuration.
type Config struct {
	// DataDir holds settings.json and reports.json.
	DataDir string `yaml:"data_dir" validate:"required"`
	// Backend selects how pull requests are queried: "cli" runs the GitHub CLI,
	// "api" calls the GitHub API with GITHUB_TOKEN.
	Backend string `yaml:"backend" validate:"oneof=cli api"`
	// GHPath overrides the GitHub CLI location.
	GHPath string `yaml:"gh_path"`
	// Provider selects the summarization service.
	Provider string `yaml:"provider" validate:"oneof=openai anthropic"`
	Model    string `yaml:"model"`
	// BaseURL points the summarization client at a compatible endpoint.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	// GitHubToken is read from GITHUB_TOKEN only.
	GitHubToken string `yaml:"-"`
}

var validate = validator.New()

// DefaultDataDir returns ~/.myimpact, or ./.myimpact when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, DefaultDirName)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir(),
		Backend:  BackendCLI,
		Provider: ProviderOpenAI,
	}
}

// Parse parses a config from YAML content on top of the defaults.
func Parse(content []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// Load reads the config file, applies environment overrides and validates the result.
// An explicit path must exist. An empty path means config.yaml in dataDir, MYIMPACT_DATA_DIR
// or DefaultDataDir, in that order, and a missing file there yields the defaults.
// A non-empty dataDir takes precedence over the file and the environment.
func Load(path, dataDir string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir := dataDir
		if dir == "" {
			dir = DefaultDataDir()
			if v, ok := os.LookupEnv("MYIMPACT_DATA_DIR"); ok && v != "" {
				dir = v
			}
		}
		path = filepath.Join(dir, FileName)
	}

	config := DefaultConfig()
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		config, err = Parse(content)
		if err != nil {
			return nil, &ConfigParseError{Path: path, Err: err}
		}
	}

	config.applyEnv()
	if dataDir != "" {
		config.DataDir = dataDir
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"MYIMPACT_DATA_DIR": &c.DataDir,
		"MYIMPACT_BACKEND":  &c.Backend,
		"MYIMPACT_GH_PATH":  &c.GHPath,
		"MYIMPACT_PROVIDER": &c.Provider,
		"MYIMPACT_MODEL":    &c.Model,
		"MYIMPACT_BASE_URL": &c.BaseURL,
		"GITHUB_TOKEN":      &c.GitHubToken,
	}
	for name, field := range overrides {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}
	if c.Backend == BackendAPI && c.GitHubToken == "" {
		return fmt.Errorf("%w: the api backend requires GITHUB_TOKEN", apperrors.ErrInvalidConfig)
	}
	return nil
}
