package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces the pipeline's environment variables.
const envPrefix = "SEGPIPE"

// Config carries everything the step chain needs. The orchestrator constructs
// one Config and threads it through; no step reads ambient process state.
type Config struct {
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Features FeaturesConfig `yaml:"features" envconfig:"FEATURES"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// DataConfig locates the artifact store and names the chain's endpoints. The
// intermediate artifact names are fixed by the step chain itself.
type DataConfig struct {
	Dir           string `yaml:"dir" envconfig:"DIR" default:"data" validate:"required"`
	RawArtifact   string `yaml:"raw_artifact" envconfig:"RAW_ARTIFACT" default:"transactions.csv" validate:"required"`
	FinalArtifact string `yaml:"final_artifact" envconfig:"FINAL_ARTIFACT" default:"customer_features.csv" validate:"required"`
}

// CleaningConfig holds the primary lineage's numeric parameters.
type CleaningConfig struct {
	// MaxAnomalousDigits is the digit count at or below which a stock code is
	// anomalous. Real codes carry 5-6 digits.
	MaxAnomalousDigits int `yaml:"max_anomalous_digits" envconfig:"MAX_ANOMALOUS_DIGITS" default:"1" validate:"min=0,max=4"`
}

// FeaturesConfig holds the secondary lineage's parameters.
type FeaturesConfig struct {
	HomeMarket    string  `yaml:"home_market" envconfig:"HOME_MARKET" default:"United Kingdom" validate:"required"`
	Contamination float64 `yaml:"contamination" envconfig:"CONTAMINATION" default:"0.05" validate:"gt=0,lt=0.5"`
	Seed          int64   `yaml:"seed" envconfig:"SEED" default:"42"`
}

// LoggingConfig controls the slog handler built by the entry points.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// Load builds a Config from defaults and SEGPIPE_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile builds a Config from defaults and environment, then overlays
// the given YAML file. File values win over environment values.
func LoadFromFile(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks parameter ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
