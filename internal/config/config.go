// Package config loads server settings from an optional config.yaml, a .env file and
// FUNDBOARD_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fundboard/internal/upstream"
)

const envPrefix = "FUNDBOARD"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type UpstreamConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	Candidates  int           `mapstructure:"candidates"`
	QuoteURL    string        `mapstructure:"quote_url"`
	RankURL     string        `mapstructure:"rank_url"`
	EstimateURL string        `mapstructure:"estimate_url"`
	MobileURL   string        `mapstructure:"mobile_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

func (u UpstreamConfig) ClientOptions() upstream.Options {
	return upstream.Options{
		QuoteURL:    u.QuoteURL,
		RankURL:     u.RankURL,
		EstimateURL: u.EstimateURL,
		MobileURL:   u.MobileURL,
		Timeout:     u.Timeout,
	}
}

// Load reads configuration. path may be empty, in which case ./config.yaml and
// ./config/config.yaml are tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional, as in production the environment is set directly
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// PORT is what most hosting platforms hand us
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envPrefix+"_SERVER_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("upstream.timeout", "8s")
	v.SetDefault("upstream.concurrency", 10)
	v.SetDefault("upstream.candidates", 50)
	v.SetDefault("upstream.quote_url", upstream.DefaultQuoteURL)
	v.SetDefault("upstream.rank_url", upstream.DefaultRankURL)
	v.SetDefault("upstream.estimate_url", upstream.DefaultEstimateURL)
	v.SetDefault("upstream.mobile_url", upstream.DefaultMobileURL)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func (c *Config) validate() error {
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Upstream.Concurrency <= 0 {
		return fmt.Errorf("upstream.concurrency must be positive, got %d", c.Upstream.Concurrency)
	}
	if c.Upstream.Candidates <= 0 || c.Upstream.Candidates > 50 {
		return fmt.Errorf("upstream.candidates must be within 1..50, got %d", c.Upstream.Candidates)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
