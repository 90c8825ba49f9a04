// Package config loads application configuration from file and
// environment and initializes the global logger.
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
	Harvest  HarvestConfig  `yaml:"harvest" mapstructure:"harvest"`
	EDGAR    EDGARConfig    `yaml:"edgar" mapstructure:"edgar"`
	PDF      PDFConfig      `yaml:"pdf" mapstructure:"pdf"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// HarvestConfig configures the harvest pipeline's default directories.
type HarvestConfig struct {
	UploadDir string `yaml:"upload_dir" mapstructure:"upload_dir"`
	OutDir    string `yaml:"out_dir" mapstructure:"out_dir"`
}

// EDGARConfig configures the SEC EDGAR filing locator. UserAgent
// identifies the operator to the SEC and must come from config or
// environment, never a literal in code.
type EDGARConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	FilingType  string `yaml:"filing_type" mapstructure:"filing_type"`
	Count       int    `yaml:"count" mapstructure:"count"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PDFConfig configures PDF text extraction.
type PDFConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// RegistryConfig configures the curated-source ledger.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the harvest run log. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and HARVEST_*
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("harvest.upload_dir", "uploads")
	v.SetDefault("harvest.out_dir", "outputs")
	v.SetDefault("edgar.base_url", "https://www.sec.gov")
	v.SetDefault("edgar.user_agent", "")
	v.SetDefault("edgar.filing_type", "10-K")
	v.SetDefault("edgar.count", 20)
	v.SetDefault("edgar.timeout_secs", 30)
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("registry.path", "source_registry.csv")
	v.SetDefault("store.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
