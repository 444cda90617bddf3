package config

import (
	"courier-route-service/internal/adapters/zones"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt is Get for integers; unparsable values fall back.
func GetInt(key string, fallback int) int {
	v, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

type StoreConfig struct {
	// "sqlite", "postgres", "redis" or "none".
	Backend     string        `yaml:"backend"`
	SQLitePath  string        `yaml:"sqlite-path"`
	DatabaseURL string        `yaml:"database-url"`
	RedisAddr   string        `yaml:"redis-addr"`
	RedisTTL    time.Duration `yaml:"redis-ttl"`
}

type Config struct {
	Depot            string             `yaml:"depot"`
	GraphPath        string             `yaml:"graph"`
	DestinationsPath string             `yaml:"destinations"`
	OutputDir        string             `yaml:"output-dir"`
	Concurrency      int                `yaml:"concurrency"`
	Port             string             `yaml:"port"`
	LogLevel         string             `yaml:"log-level"`
	Speeds           map[string]float64 `yaml:"speeds"`
	Zones            zones.Config       `yaml:"zones"`
	Store            StoreConfig        `yaml:"store"`
}

func Default() Config {
	return Config{
		Depot:            "Auckland Airport",
		GraphPath:        "network.graphml",
		DestinationsPath: "rest_homes.txt",
		OutputDir:        ".",
		Concurrency:      4,
		Port:             "8080",
		LogLevel:         "info",
		Zones:            zones.AucklandConfig(),
		Store: StoreConfig{
			Backend:    "sqlite",
			SQLitePath: "data/app.db",
			RedisAddr:  "localhost:6379",
			RedisTTL:   24 * time.Hour,
		},
	}
}

// Load reads a YAML file on top of the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from DEPOT, GRAPH_PATH, DESTINATIONS_PATH, OUTPUT_DIR,
// PORT, LOG_LEVEL, CONCURRENCY, STORE, DB_PATH, DATABASE_URL and REDIS_ADDR.
func (c *Config) ApplyEnv() {
	c.Depot = Get("DEPOT", c.Depot)
	c.GraphPath = Get("GRAPH_PATH", c.GraphPath)
	c.DestinationsPath = Get("DESTINATIONS_PATH", c.DestinationsPath)
	c.OutputDir = Get("OUTPUT_DIR", c.OutputDir)
	c.Port = Get("PORT", c.Port)
	c.LogLevel = Get("LOG_LEVEL", c.LogLevel)
	c.Concurrency = GetInt("CONCURRENCY", c.Concurrency)
	c.Store.Backend = Get("STORE", c.Store.Backend)
	c.Store.SQLitePath = Get("DB_PATH", c.Store.SQLitePath)
	c.Store.DatabaseURL = Get("DATABASE_URL", c.Store.DatabaseURL)
	c.Store.RedisAddr = Get("REDIS_ADDR", c.Store.RedisAddr)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Depot) == "" {
		return errors.New("depot is required")
	}
	if strings.TrimSpace(c.GraphPath) == "" {
		return errors.New("graph path is required")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}

	switch c.Store.Backend {
	case "sqlite", "none":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return errors.New("store: DATABASE_URL is required for the postgres backend")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return errors.New("store: redis address is required for the redis backend")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}
	return nil
}
