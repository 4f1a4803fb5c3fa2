package conf

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the bridge configuration. Every field has a working default
// so the server runs with no config file at all; a TOML file and BRIDGE_*
// env vars override the defaults, env winning over the file.
type Config struct {
	ListenAddr      string   `toml:"listen_addr"`
	ContestName     string   `toml:"contest_name"`
	DefaultLanguage string   `toml:"default_language"`
	AllowedOrigins  []string `toml:"allowed_origins"`

	// result poll timeouts, in seconds
	ResultTimeoutDefaultSec float64 `toml:"result_timeout_default_sec"`
	ResultTimeoutMaxSec     float64 `toml:"result_timeout_max_sec"`

	// pending table housekeeping, in seconds; pending_max_age_sec = 0
	// keeps unresolved entries forever
	ResolvedRetentionSec float64 `toml:"resolved_retention_sec"`
	PendingMaxAgeSec     float64 `toml:"pending_max_age_sec"`
	SweepIntervalSec     float64 `toml:"sweep_interval_sec"`
}

func Default() Config {
	return Config{
		ListenAddr:              ":8000",
		ContestName:             "QOJ Submit Bridge",
		DefaultLanguage:         "C++26",
		AllowedOrigins:          []string{"*"},
		ResultTimeoutDefaultSec: 30,
		ResultTimeoutMaxSec:     120,
		ResolvedRetentionSec:    120,
		PendingMaxAgeSec:        0,
		SweepIntervalSec:        30,
	}
}

// Load reads the TOML config at path (optional, may be "") and applies env
// overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		} else if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BRIDGE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("BRIDGE_CONTEST_NAME"); v != "" {
		cfg.ContestName = v
	}
	if v := os.Getenv("BRIDGE_DEFAULT_LANGUAGE"); v != "" {
		cfg.DefaultLanguage = v
	}
	if v := os.Getenv("BRIDGE_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
}

func (c Config) ResultTimeoutDefault() time.Duration {
	return secToDuration(c.ResultTimeoutDefaultSec)
}

func (c Config) ResultTimeoutMax() time.Duration {
	return secToDuration(c.ResultTimeoutMaxSec)
}

func (c Config) ResolvedRetention() time.Duration {
	return secToDuration(c.ResolvedRetentionSec)
}

func (c Config) PendingMaxAge() time.Duration {
	return secToDuration(c.PendingMaxAgeSec)
}

func (c Config) SweepInterval() time.Duration {
	return secToDuration(c.SweepIntervalSec)
}

func secToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
