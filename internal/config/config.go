package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/koron-go/gqlcost/v2"
)

// Config holds settings of the cost estimation service.
type Config struct {
	Listen string `yaml:"listen"`
	// Schema lists SDL files of the schema.
	Schema []string `yaml:"schema"`

	MaximumCost     int                     `yaml:"maximumCost"`
	DefaultCost     int                     `yaml:"defaultCost"`
	ComplexityRange gqlcost.ComplexityRange `yaml:"complexityRange"`
	CostMap         gqlcost.CostMap         `yaml:"costMap"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	DocumentCacheSize int           `yaml:"documentCacheSize"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
}

// Default returns the configuration used for absent keys.
func Default() *Config {
	return &Config{
		Listen:            ":8080",
		MaximumCost:       1000,
		LogLevel:          "info",
		LogFormat:         "text",
		DocumentCacheSize: 1000,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load reads a YAML file at path, then applies environment overrides.
// An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "error reading config")
		}
		if err := cfg.decode(bytes.NewReader(b)); err != nil {
			return nil, errors.Wrapf(err, "error parsing config %s", path)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (cfg *Config) applyEnv() error {
	if v, ok := os.LookupEnv("GQLCOST_LISTEN"); ok {
		cfg.Listen = v
	}
	if v, ok := os.LookupEnv("GQLCOST_MAXIMUM_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid GQLCOST_MAXIMUM_COST")
		}
		cfg.MaximumCost = n
	}
	if v, ok := os.LookupEnv("GQLCOST_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks cfg.
func (cfg *Config) Validate() error {
	if err := cfg.AnalysisOptions(nil).Validate(); err != nil {
		return err
	}
	if cfg.DocumentCacheSize < 0 {
		return errors.Errorf("documentCacheSize must not be negative, got %d", cfg.DocumentCacheSize)
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.Errorf("shutdownTimeout must be positive, got %s", cfg.ShutdownTimeout)
	}
	return nil
}

// AnalysisOptions returns options of cost analysis. Variables and
// callbacks are left for each request.
func (cfg *Config) AnalysisOptions(logger logrus.FieldLogger) gqlcost.AnalysisOptions {
	return gqlcost.AnalysisOptions{
		MaximumCost:     cfg.MaximumCost,
		DefaultCost:     cfg.DefaultCost,
		CostMap:         cfg.CostMap,
		ComplexityRange: cfg.ComplexityRange,
		Logger:          logger,
	}
}
