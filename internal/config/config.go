// Package config loads hrs settings from a TOML file, a .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "hrs.toml"

// EnvProxyURL overrides Config.ProxyURL when set.
const EnvProxyURL = "PROXY_URL"

// DefaultBaseURL is the sandbox API host.
const DefaultBaseURL = "https://finch-sandbox-se-interview.vercel.app"

// DefaultWebAddr is the listen address for `hrs serve`.
const DefaultWebAddr = "127.0.0.1:8080"

var (
	// ErrConfigExists is returned by Init when the target file already exists.
	ErrConfigExists = errors.New("config file already exists")

	// ErrNoProviders indicates an empty provider catalog.
	ErrNoProviders = errors.New("provider catalog is empty")

	// ErrUnknownProvider indicates a provider id outside the catalog.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Config holds all hrs settings.
type Config struct {
	// BaseURL is the sandbox API host every endpoint path is appended to.
	BaseURL string `toml:"base_url"`

	// ProxyURL is prepended verbatim to every absolute request URL.
	ProxyURL string `toml:"proxy_url"`

	// RequestTimeout bounds each remote call. Zero means no timeout.
	RequestTimeout time.Duration `toml:"request_timeout"`

	// StickyLoading keeps the loading indicator asserted after a failed
	// provisioning or directory call, as the first version of the client did.
	StickyLoading bool `toml:"sticky_loading"`

	Web WebConfig `toml:"web"`

	// Providers is the fixed catalog offered in the selector. The first
	// entry is the default selection.
	Providers []Provider `toml:"providers"`

	// Path is the file this config was read from, empty for defaults.
	Path string `toml:"-"`
}

// WebConfig configures the browser UI.
type WebConfig struct {
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

// Default returns the built-in configuration.
func Default() *Config {
	providers := make([]Provider, len(DefaultProviders))
	copy(providers, DefaultProviders)
	return &Config{
		BaseURL:   DefaultBaseURL,
		Web:       WebConfig{Addr: DefaultWebAddr},
		Providers: providers,
	}
}

// Load reads configuration. An explicit path must exist; with an empty path
// DefaultFileName is used when present and built-in defaults otherwise.
// A .env file in the working directory is loaded first so PROXY_URL can be
// provided there.
func Load(path string) (*Config, error) {
	// Missing .env is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	meta, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		cfg.Path = path
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Defaults only.
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config load failed (%s): %w", path, err)
	default:
		return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if v, ok := os.LookupEnv(EnvProxyURL); ok {
		cfg.ProxyURL = strings.TrimSpace(v)
	}
	if cfg.Web.Addr == "" {
		cfg.Web.Addr = DefaultWebAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the base URL and the provider catalog.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config missing or invalid base_url %q", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if err := ValidateProviders(c.Providers); err != nil {
		return err
	}
	return nil
}

// Init writes the default configuration to path. It refuses to overwrite an
// existing file and holds an exclusive lock while writing.
func Init(path string) error {
	if path == "" {
		path = DefaultFileName
	}
	return Save(path, Default(), false)
}

// Save encodes cfg to path as TOML under an exclusive file lock.
func Save(path string, cfg *Config, overwrite bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking config: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644) //nolint:gosec // G304: path chosen by user
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
