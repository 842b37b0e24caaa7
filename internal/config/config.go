package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Reporting ReportingConfig `yaml:"reporting" mapstructure:"reporting"`
	Resolver  ResolverConfig  `yaml:"resolver" mapstructure:"resolver"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ReportingConfig holds the default reporting parameters. Every value
// flows into the pipeline explicitly; core packages never read these
// globally.
type ReportingConfig struct {
	Date         string  `yaml:"date" mapstructure:"date"`
	Product      string  `yaml:"product" mapstructure:"product"`
	ControlTotal float64 `yaml:"control_total" mapstructure:"control_total"`
	TolerancePct float64 `yaml:"tolerance_pct" mapstructure:"tolerance_pct"`
}

// ResolverConfig configures column-alias resolution.
type ResolverConfig struct {
	SynonymsFile string `yaml:"synonyms_file" mapstructure:"synonyms_file"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("Y14M")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("reporting.date", "2025-03-31")
	v.SetDefault("reporting.product", "CCARD")
	v.SetDefault("reporting.control_total", 20_000_000)
	v.SetDefault("reporting.tolerance_pct", 5)
	v.SetDefault("resolver.synonyms_file", "")
	v.SetDefault("server.port", 8084)
	v.SetDefault("server.rate_limit_rps", 5)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
