package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"

	CapPolicySuccesses = "successes"
	CapPolicyAttempts  = "attempts"
)

// Config stores all configuration for the application.
type Config struct {
	ManifestPath       string `mapstructure:"MANIFEST_PATH"`
	FetchMode          string `mapstructure:"FETCH_MODE"`
	FetchTimeout       int    `mapstructure:"FETCH_TIMEOUT"`
	Proxies            string `mapstructure:"PROXIES"`
	CapPolicy          string `mapstructure:"CAP_POLICY"`
	SchemaFile         string `mapstructure:"SCHEMA_FILE"`
	PromptTemplateName string `mapstructure:"PROMPT_TEMPLATE_NAME"`
	PromptName         string `mapstructure:"PROMPT_NAME"`
	PostgresURL        string `mapstructure:"POSTGRES_URL"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	Neo4jURI           string `mapstructure:"NEO4J_URI"`
	Neo4jUser          string `mapstructure:"NEO4J_USER"`
	Neo4jPassword      string `mapstructure:"NEO4J_PASSWORD"`
	Neo4jDatabase      string `mapstructure:"NEO4J_DATABASE"`
	ServerPort         string `mapstructure:"SERVER_PORT"`
	PushgatewayURL     string `mapstructure:"PUSHGATEWAY_URL"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file path.
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing env file is fine, environment variables alone are enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	v.SetDefault("MANIFEST_PATH", "data/companies.txt")
	v.SetDefault("FETCH_MODE", FetchModeHTTP)
	v.SetDefault("FETCH_TIMEOUT", 30) // in seconds
	v.SetDefault("PROXIES", "")
	v.SetDefault("CAP_POLICY", CapPolicySuccesses)
	v.SetDefault("SCHEMA_FILE", "")
	v.SetDefault("PROMPT_TEMPLATE_NAME", "ner_kg_extraction_with_spec")
	v.SetDefault("PROMPT_NAME", "ner_kg_extraction")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("NEO4J_URI", "neo4j://localhost:7687")
	v.SetDefault("NEO4J_USER", "neo4j")
	v.SetDefault("NEO4J_PASSWORD", "")
	v.SetDefault("NEO4J_DATABASE", "neo4j")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("PUSHGATEWAY_URL", "")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the pipeline cannot act on.
func (c *Config) Validate() error {
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("invalid FETCH_MODE %q", c.FetchMode)
	}
	switch c.CapPolicy {
	case CapPolicySuccesses, CapPolicyAttempts:
	default:
		return fmt.Errorf("invalid CAP_POLICY %q", c.CapPolicy)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %d", c.FetchTimeout)
	}
	if c.ManifestPath == "" {
		return fmt.Errorf("MANIFEST_PATH is required")
	}
	return nil
}

// FetchTimeoutDuration returns FETCH_TIMEOUT as a duration.
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// ProxyList splits the comma separated PROXIES value.
func (c *Config) ProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.Proxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
