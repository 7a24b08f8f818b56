package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/rankwise/pkg/formatting"
	"github.com/JaimeStill/rankwise/pkg/middleware"
	"github.com/JaimeStill/rankwise/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "RANKWISE_CORS_ENABLED",
	Origins:          "RANKWISE_CORS_ORIGINS",
	AllowedMethods:   "RANKWISE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "RANKWISE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "RANKWISE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "RANKWISE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "RANKWISE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "RANKWISE_PAGINATION_MAX_PAGE_SIZE",
}

const defaultMaxUploadSize = 10 * 1024 * 1024

// APIConfig holds API routing, CORS, and pagination settings. MaxUploadSize
// is a human size such as "10MB" and caps a single cutoff sheet upload.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes, or the 10MB default when
// it is unset or unparsable.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil || size <= 0 {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("RANKWISE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("RANKWISE_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path: %q", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
