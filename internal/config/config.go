// Package config loads lazyfetch settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/lazyfetch"
	"github.com/aretw0/lazyfetch/pkg/ports"
	"github.com/aretw0/lazyfetch/pkg/redact"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI and the server need to build caches.
type Config struct {
	Timeout     time.Duration   `mapstructure:"timeout" json:"timeout"`
	ProbeMethod string          `mapstructure:"probe_method" json:"probe_method"`
	UserAgent   string          `mapstructure:"user_agent" json:"user_agent"`
	LogLevel    string          `mapstructure:"log_level" json:"log_level"`
	Listen      string          `mapstructure:"listen" json:"listen"`
	Interrupts  []InterruptSpec `mapstructure:"interrupts" json:"interrupts"`
	// Redact lists query parameter name patterns masked in journals.
	Redact []string    `mapstructure:"redact" json:"redact"`
	Redis  RedisConfig `mapstructure:"redis" json:"redis"`
}

// RedisConfig enables the Redis journal when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" json:"addr"`
	Password string        `mapstructure:"password" json:"-"`
	DB       int           `mapstructure:"db" json:"db"`
	Prefix   string        `mapstructure:"prefix" json:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" json:"ttl"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Timeout:     lazyfetch.DefaultTimeout,
		ProbeMethod: http.MethodHead,
		UserAgent:   "lazyfetch/" + strings.TrimSpace(lazyfetch.Version),
		LogLevel:    "info",
		Listen:      ":8080",
		Redact:      slices.Clone(redact.DefaultPatterns),
	}
}

// DefaultPath is the config file read when none is named explicitly.
const DefaultPath = "lazyfetch.yaml"

// Load reads a configuration file (YAML or JSON) over the defaults. An empty
// path yields the defaults; a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// LoadOptional is like Load, but a missing file means "no overrides".
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes raw configuration over the defaults. Raw is YAML unless
// isJSON is set.
func Parse(data []byte, isJSON bool) (Config, error) {
	cfg := Default()

	raw := map[string]any{}
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse config json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse config yaml: %w", err)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that decoding cannot.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if strings.ContainsAny(c.ProbeMethod, " \t\r\n") {
		return fmt.Errorf("invalid probe method %q", c.ProbeMethod)
	}
	if _, err := c.Conditions(); err != nil {
		return err
	}
	if _, err := redact.New(c.Redact); err != nil {
		return err
	}
	return nil
}

// Conditions compiles the interrupt specs in order.
func (c Config) Conditions() ([]lazyfetch.Condition, error) {
	conds := make([]lazyfetch.Condition, 0, len(c.Interrupts))
	for i, spec := range c.Interrupts {
		cond, err := spec.Condition()
		if err != nil {
			return nil, fmt.Errorf("interrupts[%d]: %w", i, err)
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// Transport returns an HTTP client honouring the timeout that fills in the
// configured User-Agent on requests that carry none.
func (c Config) Transport() ports.Transport {
	client := &http.Client{Timeout: c.Timeout}
	if c.UserAgent == "" {
		return client
	}
	return ports.TransportFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("User-Agent") == "" {
			req = req.Clone(req.Context())
			req.Header.Set("User-Agent", c.UserAgent)
		}
		return client.Do(req)
	})
}

// Options returns the cache options described by c.
func (c Config) Options() ([]lazyfetch.Option, error) {
	conds, err := c.Conditions()
	if err != nil {
		return nil, err
	}
	redactor, err := redact.New(c.Redact)
	if err != nil {
		return nil, err
	}
	return []lazyfetch.Option{
		lazyfetch.WithTransport(c.Transport()),
		lazyfetch.WithRedactor(redactor),
		lazyfetch.WithProbeMethod(c.ProbeMethod),
		lazyfetch.WithInterruptConditions(conds...),
	}, nil
}
