package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for chronos, stored in
// ~/.chronos/config.json. The file supports single-line // comments for
// documentation purposes.
type Config struct {
	API APIConfig `json:"api"`
	// UserID overrides the user id read from the access token.
	UserID int64 `json:"user_id"`
	// Timezone is the IANA timezone that decides which day is "today".
	// Empty = local time.
	Timezone string      `json:"timezone"`
	LogLevel string      `json:"log_level"`
	Serve    ServeConfig `json:"serve"`
}

// APIConfig locates the Chronos backend.
type APIConfig struct {
	BaseURL      string   `json:"base_url"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Timeout      Duration `json:"timeout"`
}

// ServeConfig holds the settings of the local web console.
type ServeConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultClientID = "chronos-client"
	DefaultTimeout  = Duration(30 * time.Second)
	DefaultLogLevel = "warn"
	DefaultAddr     = "127.0.0.1:8787"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:  DefaultBaseURL,
			ClientID: DefaultClientID,
			Timeout:  DefaultTimeout,
		},
		LogLevel: DefaultLogLevel,
		Serve: ServeConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// chronos configuration – ~/.chronos/config.json
//
// Every setting can also be given as an environment variable (shown in
// brackets) or in a .env file in the working directory; those win over
// this file.
{
  // ── Chronos backend ──────────────────────────────────────────────────────
  "api": {
    // Root URL of the Chronos server. [CHRONOS_API_URL]
    "base_url": "http://localhost:8080",

    // OAuth2 client used for the password grant. [CHRONOS_CLIENT_ID, CHRONOS_CLIENT_SECRET]
    "client_id": "chronos-client",
    "client_secret": "",

    // Per-request timeout, e.g. "30s" or "1m". [CHRONOS_TIMEOUT]
    "timeout": "30s"
  },

  // Numeric user id. Leave 0 to read it from the login token. [CHRONOS_USER_ID]
  "user_id": 0,

  // IANA timezone deciding which day is "today", e.g. "Europe/Athens".
  // Leave empty to use the local time. [CHRONOS_TIMEZONE]
  "timezone": "",

  // debug, info, warn or error. --verbose forces debug. [CHRONOS_LOG_LEVEL]
  "log_level": "warn",

  // ── chronos serve ────────────────────────────────────────────────────────
  "serve": {
    // Listen address of the local web console. [CHRONOS_SERVE_ADDR]
    "addr": "127.0.0.1:8787",

    // Browser origins allowed to call the console API. [CHRONOS_ALLOWED_ORIGINS, comma separated]
    "allowed_origins": ["http://localhost:3000"]
  }
}
`

// FilePath returns the path to ~/.chronos/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".chronos", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.chronos/config.json, creating it with annotated defaults on
// first run, then applies .env and CHRONOS_* environment overrides.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return defaultConfig(), err
	}
	// A missing .env is the common case.
	_ = godotenv.Load()
	return LoadFrom(path)
}

// LoadFrom reads the config file at path. A missing file is created from the
// annotated template.
func LoadFrom(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	fillDefaults(&cfg)
	return cfg, nil
}

// fillDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the
// file.
func fillDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.ClientID == "" {
		cfg.API.ClientID = DefaultClientID
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = DefaultTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultAddr
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.API.BaseURL, "CHRONOS_API_URL")
	setString(&cfg.API.ClientID, "CHRONOS_CLIENT_ID")
	setString(&cfg.API.ClientSecret, "CHRONOS_CLIENT_SECRET")
	setString(&cfg.Timezone, "CHRONOS_TIMEZONE")
	setString(&cfg.LogLevel, "CHRONOS_LOG_LEVEL")
	setString(&cfg.Serve.Addr, "CHRONOS_SERVE_ADDR")

	if v, ok := lookup("CHRONOS_TIMEOUT"); ok {
		if err := cfg.API.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid CHRONOS_TIMEOUT: %w", err)
		}
	}
	if v, ok := lookup("CHRONOS_USER_ID"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CHRONOS_USER_ID: %w", err)
		}
		cfg.UserID = id
	}
	if v, ok := lookup("CHRONOS_ALLOWED_ORIGINS"); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Serve.AllowedOrigins = origins
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// Location returns the configured timezone, or time.Local when none is set.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
