package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Mode selects which set of URLs is active
type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

// EnvPrefix is the prefix of environment overrides (SPECTER_APP_MODE, ...)
const EnvPrefix = "SPECTER_"

// Config represents the application configuration
type Config struct {
	// Mode flag selecting dev or prod URLs
	AppMode Mode `yaml:"app_mode" koanf:"app_mode"`

	// Backend API base URLs
	BackendURLDev  string `yaml:"backend_url_dev" koanf:"backend_url_dev"`
	BackendURLProd string `yaml:"backend_url_prod" koanf:"backend_url_prod"`

	// Frontend URLs, used to point users at the OTP verification page
	FrontendURLDev  string `yaml:"frontend_url_dev" koanf:"frontend_url_dev"`
	FrontendURLProd string `yaml:"frontend_url_prod" koanf:"frontend_url_prod"`

	// Login endpoints base URL; empty means the backend serves them
	AuthURL string `yaml:"auth_url,omitempty" koanf:"auth_url"`

	// Where downloaded reports are written
	DownloadDir string `yaml:"download_dir,omitempty" koanf:"download_dir"`

	LogLevel  string `yaml:"log_level,omitempty" koanf:"log_level"`
	LogFormat string `yaml:"log_format,omitempty" koanf:"log_format"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		AppMode:         ModeProd,
		BackendURLDev:   "http://localhost:8000",
		BackendURLProd:  "https://specterai.duckdns.org",
		FrontendURLDev:  "http://localhost:5173",
		FrontendURLProd: "https://specterai.duckdns.org",
		DownloadDir:     ".",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads the YAML file at path if it exists, then a .env file from the
// working directory, then overlays SPECTER_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := loadFile(k, path); err != nil {
		return nil, err
	}

	// A missing .env is normal outside development
	_ = godotenv.Load()

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	return unmarshal(k)
}

// LoadFile reads only the defaults and the YAML file at path. Use it when
// the result is written back, so environment overrides never end up in
// the file.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")
	if err := loadFile(k, path); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("accessing config %s: %w", path, err)
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.AppMode = Mode(strings.ToLower(strings.TrimSpace(string(cfg.AppMode))))
	return cfg, nil
}

// Save writes the configuration to the given YAML file path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// BackendURL returns the backend base URL for the active mode
func (c *Config) BackendURL() string {
	if c.AppMode == ModeDev {
		return strings.TrimSuffix(c.BackendURLDev, "/")
	}
	return strings.TrimSuffix(c.BackendURLProd, "/")
}

// FrontendURL returns the frontend base URL for the active mode
func (c *Config) FrontendURL() string {
	if c.AppMode == ModeDev {
		return strings.TrimSuffix(c.FrontendURLDev, "/")
	}
	return strings.TrimSuffix(c.FrontendURLProd, "/")
}

// AuthBaseURL returns the base URL of the login endpoints
func (c *Config) AuthBaseURL() string {
	if u := strings.TrimSuffix(strings.TrimSpace(c.AuthURL), "/"); u != "" {
		return u
	}
	return c.BackendURL()
}

// VerifyURL is the page where users type the emailed one-time code
func (c *Config) VerifyURL() string {
	return c.FrontendURL() + "/verify-otp"
}

// Validate checks the values the active mode depends on
func (c *Config) Validate() error {
	switch c.AppMode {
	case ModeDev, ModeProd:
	default:
		return fmt.Errorf("invalid app_mode %q: must be dev or prod", c.AppMode)
	}

	if err := validateURL("backend url", c.BackendURL()); err != nil {
		return err
	}
	if c.AuthURL != "" {
		if err := validateURL("auth url", c.AuthBaseURL()); err != nil {
			return err
		}
	}
	if c.FrontendURL() != "" {
		if err := validateURL("frontend url", c.FrontendURL()); err != nil {
			return err
		}
	}
	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: must start with http:// or https://", name, raw)
	}
	return nil
}

// GetGlobalConfigDir returns ~/.specter
func GetGlobalConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".specter"), nil
}

// GetGlobalConfigPath returns the path of the global config file
func GetGlobalConfigPath() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadGlobalConfig loads the config file from the global config directory
func LoadGlobalConfig() (*Config, error) {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// SaveGlobalConfig saves the config file into the global config directory
func SaveGlobalConfig(cfg *Config) error {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return err
	}
	return cfg.Save(path)
}
