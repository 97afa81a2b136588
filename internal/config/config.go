// Package config loads application configuration from config.yaml and
// NIGHTLIGHTS_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Paths are explicit
// configuration handed to the pipeline, not process-wide globals.
type Config struct {
	Boundaries BoundariesConfig `yaml:"boundaries" mapstructure:"boundaries"`
	Raster     RasterConfig     `yaml:"raster" mapstructure:"raster"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// BoundariesConfig configures the vector boundary source.
type BoundariesConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	Format     string `yaml:"format" mapstructure:"format"` // geojson or shapefile
	StateTable string `yaml:"state_table" mapstructure:"state_table"`
}

// RasterConfig configures the night-light raster source.
type RasterConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	// NoData overrides or supplies the raster's NoData sentinel when
	// UseNoData is set; TIFF files carry none of their own.
	NoData    float64 `yaml:"nodata" mapstructure:"nodata"`
	UseNoData bool    `yaml:"use_nodata" mapstructure:"use_nodata"`
}

// StoreConfig configures the batch results database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
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
	v.SetEnvPrefix("NIGHTLIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("boundaries.format", "geojson")
	v.SetDefault("store.path", "nightlights.db")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
