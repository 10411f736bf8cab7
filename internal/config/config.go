package config

import (
	"fmt"
	"os"

	"github.com/gyeh/readmitprep/internal/model"

	"gopkg.in/yaml.v3"
)

// Fixed locations used when no path is configured.
const (
	DefaultInputPath  = "./data/diabetic_data.csv"
	DefaultOutputPath = "df_preprocessed.csv"
)

// Config holds all runtime configuration for a readmitprep run.
type Config struct {
	InputPath   string
	OutputPath  string
	ParquetPath string // optional Parquet export; empty disables it
	Seed        uint32
	Cap         int
	LogFormat   string // "text" or "json"
	DSN         string
}

// yamlConfig is the on-disk YAML structure. Pointer fields distinguish
// "unset" from zero values.
type yamlConfig struct {
	Input         string  `yaml:"input"`
	Output        string  `yaml:"output"`
	ParquetOutput string  `yaml:"parquet_output"`
	Seed          *uint32 `yaml:"seed"`
	Cap           *int    `yaml:"cap"`
}

// Defaults returns the fixed-path configuration used by CleanData.
func Defaults() Config {
	return Config{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		Seed:       model.DefaultSeed,
		Cap:        model.DefaultCap,
		LogFormat:  "text",
	}
}

// LoadFromFile reads a YAML config file and merges the values it sets into
// Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.Input != "" {
		c.InputPath = yc.Input
	}
	if yc.Output != "" {
		c.OutputPath = yc.Output
	}
	if yc.ParquetOutput != "" {
		c.ParquetPath = yc.ParquetOutput
	}
	if yc.Seed != nil {
		c.Seed = *yc.Seed
	}
	if yc.Cap != nil {
		c.Cap = *yc.Cap
	}
	return c.validateCap()
}

func (c *Config) validateCap() error {
	if c.Cap <= 0 {
		return fmt.Errorf("cap must be positive, got %d", c.Cap)
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("--in is required")
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("input not accessible: %w", err)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("--out is required")
	}
	return c.validateCap()
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or READMITPREP_DB_URL is required")
	}
	return nil
}
