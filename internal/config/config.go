package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the analysis service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Clients  ClientsConfig  `yaml:"clients"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// ClientsConfig groups the external model integrations.
type ClientsConfig struct {
	Classifier ClassifierClientConfig `yaml:"classifier"`
	Explainer  ExplainerClientConfig  `yaml:"explainer"`
}

// ClassifierClientConfig configures access to the classification model API.
type ClassifierClientConfig struct {
	BaseURL      string        `yaml:"baseURL"`
	ClassifyPath string        `yaml:"classifyPath"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ExplainerClientConfig configures access to the explanation model API.
type ExplainerClientConfig struct {
	BaseURL     string        `yaml:"baseURL"`
	ExplainPath string        `yaml:"explainPath"`
	APIKey      string        `yaml:"apiKey"`
	Timeout     time.Duration `yaml:"timeout"`
}

// PipelineConfig controls classification behaviour.
type PipelineConfig struct {
	FallbackEnabled bool   `yaml:"fallbackEnabled"`
	RulesPath       string `yaml:"rulesPath"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// StorageConfig selects the history backend.
type StorageConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Capacity int    `yaml:"capacity"`
}

// CacheConfig controls Redis-backed caching of aggregate queries.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StatsTTL time.Duration `yaml:"statsTTL"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GUARDIAN_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Clients: ClientsConfig{
			Classifier: ClassifierClientConfig{
				ClassifyPath: "/classify",
				Timeout:      5 * time.Second,
			},
			Explainer: ExplainerClientConfig{
				ExplainPath: "/explain",
				Timeout:     5 * time.Second,
			},
		},
		Pipeline: PipelineConfig{
			FallbackEnabled: true,
			RulesPath:       "configs/rules/default.yaml",
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Storage: StorageConfig{
			Enabled:  false,
			Capacity: 1000,
		},
		Cache: CacheConfig{
			Enabled:  false,
			StatsTTL: 30 * time.Second,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GUARDIAN_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("GUARDIAN_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("GUARDIAN_CLASSIFIER_BASE_URL"); v != "" {
		cfg.Clients.Classifier.BaseURL = v
	}
	if v := os.Getenv("GUARDIAN_CLASSIFIER_PATH"); v != "" {
		cfg.Clients.Classifier.ClassifyPath = v
	}
	if v := os.Getenv("GUARDIAN_EXPLAINER_BASE_URL"); v != "" {
		cfg.Clients.Explainer.BaseURL = v
	}
	if v := os.Getenv("GUARDIAN_EXPLAINER_PATH"); v != "" {
		cfg.Clients.Explainer.ExplainPath = v
	}
	if v := os.Getenv("GUARDIAN_EXPLAINER_API_KEY"); v != "" {
		cfg.Clients.Explainer.APIKey = v
	}
	if v := os.Getenv("GUARDIAN_FALLBACK_ENABLED"); v != "" {
		cfg.Pipeline.FallbackEnabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("GUARDIAN_RULES_PATH"); v != "" {
		cfg.Pipeline.RulesPath = v
	}
	if v := os.Getenv("GUARDIAN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GUARDIAN_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("GUARDIAN_STORAGE_ENABLED"); v != "" {
		cfg.Storage.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("GUARDIAN_STORAGE_ADDR"); v != "" {
		cfg.Storage.Addr = v
	}
	if v := os.Getenv("GUARDIAN_STORAGE_PASSWORD"); v != "" {
		cfg.Storage.Password = v
	}
	if v := os.Getenv("GUARDIAN_STORAGE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Storage.DB = db
		}
	}
	if v := os.Getenv("GUARDIAN_STORAGE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Capacity = n
		}
	}
	if v := os.Getenv("GUARDIAN_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("GUARDIAN_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("GUARDIAN_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("GUARDIAN_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("GUARDIAN_CACHE_STATS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.StatsTTL = d
		}
	}
}
