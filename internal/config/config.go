package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSocketPath     = "/tmp/mpvsocket"
	DefaultPipePath       = `\\.\pipe\mpvsocket`
	DefaultConnectTimeout = 5 * time.Second
	DefaultObserveCount   = 10
)

type Config struct {
	SocketPath     string        `yaml:"socket"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Debug          bool          `yaml:"debug"`
	ObserveCount   int           `yaml:"observe_count"`
}

// Load reads an optional YAML file named by MPVIPC_CONFIG, then lets
// environment variables override it.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("MPVIPC_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.SocketPath = envVar("MPVIPC_SOCKET", cfg.SocketPath)
	cfg.ConnectTimeout = envVar("MPVIPC_CONNECT_TIMEOUT", cfg.ConnectTimeout)
	cfg.Debug = envVar("MPVIPC_DEBUG", cfg.Debug)
	cfg.ObserveCount = envVar("MPVIPC_OBSERVE_COUNT", cfg.ObserveCount)

	// Validate configuration
	cfg.validate()

	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	cfg := Config{
		SocketPath:     DefaultSocketPath,
		ConnectTimeout: DefaultConnectTimeout,
		ObserveCount:   DefaultObserveCount,
	}
	if runtime.GOOS == "windows" {
		cfg.SocketPath = DefaultPipePath
	}
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func envVar[T ~string | ~bool | ~int | ~int64](key string, def T) T {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	switch any(def).(type) {
	case string:
		return any(v).(T)
	case bool:
		if b, err := strconv.ParseBool(v); err == nil {
			return any(b).(T)
		}
	case int:
		if i, err := strconv.Atoi(v); err == nil {
			return any(i).(T)
		}
	case time.Duration:
		if d, err := time.ParseDuration(v); err == nil {
			return any(d).(T)
		}
	case int64:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return any(i).(T)
		}
	}
	return def
}

// validate performs validation on configuration values
func (c *Config) validate() {
	if c.SocketPath == "" {
		c.SocketPath = Default().SocketPath
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ObserveCount < 0 {
		c.ObserveCount = DefaultObserveCount
	}
}
