package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the effective configuration for one build run, assembled
// with precedence CLI → environment → file → built-in defaults.
type Config struct {
	Source          string `mapstructure:"source" validate:"required,oneof=openalex s2"`
	Spine           string `mapstructure:"spine" validate:"required,oneof=citation similarity co-citation coupling hybrid"`
	Depth           int    `mapstructure:"depth" validate:"min=0"`
	MaxPapers       int    `mapstructure:"maxPapers" validate:"min=1"`
	MaxRefsPerPaper int    `mapstructure:"maxRefsPerPaper" validate:"min=0"`
	MaxCitesPerPaper int   `mapstructure:"maxCitesPerPaper" validate:"min=0"`
	YearFrom        int    `mapstructure:"yearFrom"`
	YearTo          int    `mapstructure:"yearTo"`
	Out             string `mapstructure:"out" validate:"required"`

	Similarity SimilarityConfig `mapstructure:"similarity"`
	Clustering ClusteringConfig `mapstructure:"clustering"`
	Ranking    RankingConfig    `mapstructure:"ranking"`
	Entities   EntitiesConfig   `mapstructure:"entities"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimilarityConfig controls the text-similarity edge builder (§4.6).
type SimilarityConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	TopK      int     `mapstructure:"topK" validate:"min=1"`
	Threshold float64 `mapstructure:"threshold" validate:"min=0,max=1"`
}

// ClusteringConfig controls Louvain community detection (§4.8).
type ClusteringConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method" validate:"oneof=louvain"`
	// Seed drives the deterministic RNG passed to gonum's
	// community.Modularize; two runs with the same seed and the same
	// input produce identical communities. Never derived from wall
	// clock time.
	Seed int64 `mapstructure:"seed"`
}

// RankingConfig controls the composite scorer (§4.9). The three
// weights must sum to 1.0 within 1e-9; enforced in Validate.
type RankingConfig struct {
	PagerankWeight  float64 `mapstructure:"pagerankWeight"`
	RelevanceWeight float64 `mapstructure:"relevanceWeight"`
	RecencyWeight   float64 `mapstructure:"recencyWeight"`
}

// EntitiesConfig controls the dictionary-matching entity extractor
// (§4.10). Unlike LLMConfig, this component is fully deterministic and
// implemented, so it defaults on and is never gated by the LLM toggle.
type EntitiesConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LLMConfig is acknowledged but unimplemented: the enrichment edge
// labels (EXTENDS, CONTRADICTS, ...) are a declared Non-goal of the
// core build engine.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	Enabled  bool   `mapstructure:"enabled"`
}

// CacheConfig controls the response cache (§4.1).
type CacheConfig struct {
	Dir      string `mapstructure:"dir"`
	TTL      string `mapstructure:"ttl"`
	Disabled bool   `mapstructure:"disabled"`
}

// ProvidersConfig carries per-source credentials.
type ProvidersConfig struct {
	OpenAlex struct {
		APIKey string `mapstructure:"apiKey"`
		Mailto string `mapstructure:"mailto"`
	} `mapstructure:"openalex"`
	S2 struct {
		APIKey string `mapstructure:"apiKey"`
	} `mapstructure:"s2"`
}

// LoggingConfig controls the process-wide slog logger (§9).
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// LoadConfig loads configuration discovered from the working directory
// upward, applying defaults, file and environment. CLI overrides are
// not applied here: the build command sets them on the returned Config
// and validates it again.
func LoadConfig() (*Config, error) {
	return LoadConfigFromPath("")
}

// LoadConfigFromPath loads configuration from a specific file path, or
// discovers `papergraph.json` from the working directory upward when
// configPath is empty.
func LoadConfigFromPath(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("papergraph")
		viper.SetConfigType("json")
		if dir, err := os.Getwd(); err == nil {
			for {
				viper.AddConfigPath(dir)
				parent := filepath.Dir(dir)
				if parent == dir {
					break
				}
				dir = parent
			}
		}
	}

	viper.SetEnvPrefix("PAPERGRAPH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-tag validation plus the cross-field checks spec
// §4.9/§6/§9 leave to "whoever enforces configuration" — resolved here.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	weightSum := c.Ranking.PagerankWeight + c.Ranking.RelevanceWeight + c.Ranking.RecencyWeight
	if diff := weightSum - 1.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("config validation failed: ranking weights must sum to 1.0, got %f", weightSum)
	}

	return nil
}

// setDefaults registers every default with viper so Unmarshal never
// sees a zero value the spec didn't intend.
func setDefaults() {
	viper.SetDefault("source", "openalex")
	viper.SetDefault("spine", "citation")
	viper.SetDefault("depth", 2)
	viper.SetDefault("maxPapers", 200)
	viper.SetDefault("maxRefsPerPaper", 50)
	viper.SetDefault("maxCitesPerPaper", 50)
	viper.SetDefault("yearFrom", 0)
	viper.SetDefault("yearTo", 0)
	viper.SetDefault("out", "./papergraph.db")

	viper.SetDefault("similarity.enabled", true)
	viper.SetDefault("similarity.topK", 10)
	viper.SetDefault("similarity.threshold", 0.25)

	viper.SetDefault("clustering.enabled", true)
	viper.SetDefault("clustering.method", "louvain")
	viper.SetDefault("clustering.seed", 1)

	viper.SetDefault("ranking.pagerankWeight", 0.5)
	viper.SetDefault("ranking.relevanceWeight", 0.3)
	viper.SetDefault("ranking.recencyWeight", 0.2)

	viper.SetDefault("entities.enabled", true)

	viper.SetDefault("llm.enabled", false)

	viper.SetDefault("cache.dir", "./.papergraph-cache")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.disabled", false)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}
