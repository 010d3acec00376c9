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
	Build  BuildConfig  `yaml:"build" mapstructure:"build"`
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Emit   EmitConfig   `yaml:"emit" mapstructure:"emit"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// BuildConfig configures the hierarchy builder.
type BuildConfig struct {
	// UnknownPolicy decides what happens to records of unrecognised type:
	// "municipality" or "drop".
	UnknownPolicy   string `yaml:"unknown_policy" mapstructure:"unknown_policy"`
	PrefixLength    int    `yaml:"prefix_length" mapstructure:"prefix_length"`
	PlaceholderName string `yaml:"placeholder_name" mapstructure:"placeholder_name"`
}

// SourceConfig configures record sources.
type SourceConfig struct {
	Sheet   string        `yaml:"sheet" mapstructure:"sheet"`
	Charset string        `yaml:"charset" mapstructure:"charset"`
	Columns ColumnsConfig `yaml:"columns" mapstructure:"columns"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
}

// ColumnsConfig forces spreadsheet header names per role.
type ColumnsConfig struct {
	Code         string `yaml:"code" mapstructure:"code"`
	Province     string `yaml:"province" mapstructure:"province"`
	Municipality string `yaml:"municipality" mapstructure:"municipality"`
}

// HTTPConfig configures package downloads.
type HTTPConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// EmitConfig configures output rendering.
type EmitConfig struct {
	Format    string       `yaml:"format" mapstructure:"format"`
	ChunkSize int          `yaml:"chunk_size" mapstructure:"chunk_size"`
	Kotlin    KotlinConfig `yaml:"kotlin" mapstructure:"kotlin"`
}

// KotlinConfig names the generated Kotlin package and object.
type KotlinConfig struct {
	Package string `yaml:"package" mapstructure:"package"`
	Object  string `yaml:"object" mapstructure:"object"`
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
	v.SetConfigName("psgc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PSGC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key is registered so AutomaticEnv can see it.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("build.unknown_policy", "municipality")
	v.SetDefault("build.prefix_length", 2)
	v.SetDefault("build.placeholder_name", "Unknown Province")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.charset", "")
	v.SetDefault("source.columns.code", "")
	v.SetDefault("source.columns.province", "")
	v.SetDefault("source.columns.municipality", "")
	v.SetDefault("source.http.timeout_secs", 60)
	v.SetDefault("source.http.max_retries", 3)
	v.SetDefault("source.http.user_agent", "psgc-cli/1.0")
	v.SetDefault("source.http.rate_per_sec", 5)
	v.SetDefault("emit.format", "kotlin")
	v.SetDefault("emit.chunk_size", 25)
	v.SetDefault("emit.kotlin.package", "com.onlineexamination.data.model")
	v.SetDefault("emit.kotlin.object", "PsgcData")

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

// Validate checks value ranges and returns every problem found.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(strings.TrimSpace(c.Build.UnknownPolicy)) {
	case "municipality", "drop":
	default:
		problems = append(problems, "build.unknown_policy must be municipality or drop")
	}
	if c.Build.PrefixLength < 1 || c.Build.PrefixLength > 9 {
		problems = append(problems, "build.prefix_length must be between 1 and 9")
	}
	if c.Emit.ChunkSize < 0 {
		problems = append(problems, "emit.chunk_size must be >= 0")
	}
	if c.Source.HTTP.MaxRetries < 1 {
		problems = append(problems, "source.http.max_retries must be >= 1")
	}
	if c.Source.HTTP.RatePerSec <= 0 {
		problems = append(problems, "source.http.rate_per_sec must be > 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
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
