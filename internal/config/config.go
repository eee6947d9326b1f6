package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"slot-pricing-service/internal/domain"
)

// Config is the server's process configuration. The scoring defaults seed the
// settings store on first boot only; afterwards /settings owns those values.
type Config struct {
	Port             string          `json:"port"`
	DatabaseURL      string          `json:"database_url"`
	SeedProductsPath string          `json:"seed_products_path"`
	RedisAddr        string          `json:"redis_addr"`
	OSRMBaseURL      string          `json:"osrm_base_url"`
	LogLevel         string          `json:"log_level"`
	LogPretty        bool            `json:"log_pretty"`
	GeocodeCenterLat float64         `json:"geocode_center_lat"`
	GeocodeCenterLon float64         `json:"geocode_center_lon"`
	ScoringDefaults  domain.Settings `json:"scoring_defaults"`
}

func (c *Config) setDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "data/app.db"
	}
	if c.SeedProductsPath == "" {
		c.SeedProductsPath = "data/seeds/products.json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.GeocodeCenterLat == 0 && c.GeocodeCenterLon == 0 {
		// Phoenix, AZ; matches the shipped demo data.
		c.GeocodeCenterLat = 33.4484
		c.GeocodeCenterLon = -112.0740
	}
}

// Load reads an optional YAML file and applies SPS_* environment overrides.
// Double underscores mark nesting, e.g. SPS_SCORING_DEFAULTS__K maps to
// scoring_defaults.k and SPS_DATABASE_URL maps to database_url.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config %q: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("SPS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sps_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	var cfg Config
	cfg.ScoringDefaults = domain.DefaultSettings()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.setDefaults()

	if err := cfg.ScoringDefaults.Validate(); err != nil {
		return nil, fmt.Errorf("config scoring defaults: %w", err)
	}

	return &cfg, nil
}

// Get returns an environment variable or the fallback.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
