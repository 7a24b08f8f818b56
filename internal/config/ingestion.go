package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvIngestionCheckpointInterval = "RANKWISE_INGESTION_CHECKPOINT_INTERVAL"
	EnvIngestionErrorSampleSize    = "RANKWISE_INGESTION_ERROR_SAMPLE_SIZE"
	EnvEligibilityYearsBack        = "RANKWISE_ELIGIBILITY_YEARS_BACK"
)

// IngestionConfig tunes the cutoff ingestion pipeline.
type IngestionConfig struct {
	CheckpointInterval int `toml:"checkpoint_interval"`
	ErrorSampleSize    int `toml:"error_sample_size"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IngestionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *IngestionConfig) Merge(overlay *IngestionConfig) {
	if overlay.CheckpointInterval != 0 {
		c.CheckpointInterval = overlay.CheckpointInterval
	}
	if overlay.ErrorSampleSize != 0 {
		c.ErrorSampleSize = overlay.ErrorSampleSize
	}
}

func (c *IngestionConfig) loadDefaults() {
	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = 50
	}
	if c.ErrorSampleSize == 0 {
		c.ErrorSampleSize = 10
	}
}

func (c *IngestionConfig) loadEnv() {
	if v := os.Getenv(EnvIngestionCheckpointInterval); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CheckpointInterval = n
		}
	}
	if v := os.Getenv(EnvIngestionErrorSampleSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ErrorSampleSize = n
		}
	}
}

func (c *IngestionConfig) validate() error {
	if c.CheckpointInterval < 1 {
		return fmt.Errorf("checkpoint_interval must be positive")
	}
	if c.ErrorSampleSize < 1 {
		return fmt.Errorf("error_sample_size must be positive")
	}
	return nil
}

// EligibilityConfig tunes candidate classification.
type EligibilityConfig struct {
	YearsBack int `toml:"years_back"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EligibilityConfig) Finalize() error {
	if c.YearsBack == 0 {
		c.YearsBack = 2
	}
	if v := os.Getenv(EnvEligibilityYearsBack); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.YearsBack = n
		}
	}
	if c.YearsBack < 1 {
		return fmt.Errorf("years_back must be positive")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *EligibilityConfig) Merge(overlay *EligibilityConfig) {
	if overlay.YearsBack != 0 {
		c.YearsBack = overlay.YearsBack
	}
}
