package config

import (
	"fmt"
	"os"

	"github.com/mwhitfield/bursar/pkg/formatting"
	"github.com/mwhitfield/bursar/pkg/pagination"
)

const (
	EnvReviewMaxPDFSize = "BURSAR_REVIEW_MAX_PDF_SIZE"

	defaultMaxPDFSize = "50MB"
)

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "BURSAR_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "BURSAR_PAGINATION_MAX_PAGE_SIZE",
}

// ReviewConfig holds review pipeline settings and history pagination.
type ReviewConfig struct {
	MaxPDFSize string            `yaml:"max_pdf_size"`
	Pagination pagination.Config `yaml:"pagination"`
}

// MaxPDFSizeBytes returns the parsed size cap, falling back to 50MB.
func (c *ReviewConfig) MaxPDFSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxPDFSize)
	if err != nil {
		size, _ = formatting.ParseBytes(defaultMaxPDFSize)
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the review config and its nested pagination config.
func (c *ReviewConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxPDFSize); err != nil {
		return fmt.Errorf("invalid max_pdf_size: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *ReviewConfig) Merge(overlay *ReviewConfig) {
	if overlay.MaxPDFSize != "" {
		c.MaxPDFSize = overlay.MaxPDFSize
	}
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *ReviewConfig) loadDefaults() {
	if c.MaxPDFSize == "" {
		c.MaxPDFSize = defaultMaxPDFSize
	}
}

func (c *ReviewConfig) loadEnv() {
	if v := os.Getenv(EnvReviewMaxPDFSize); v != "" {
		c.MaxPDFSize = v
	}
}
