// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-wrss.
//
// go-wrss is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-wrss/internal/config"
	rng "github.com/jeremyhahn/go-wrss/pkg/crypto/rand"
	"github.com/jeremyhahn/go-wrss/pkg/logging"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputFormat controls output formatting (text, json, yaml)
	OutputFormat string

	// Verbose enables debug logging
	Verbose bool

	// Seed makes every random draw deterministic. Testing only.
	Seed string

	// MetricsTextfile overrides metrics.textfile from the config file
	MetricsTextfile string

	// Scheme overrides; zero values keep the configured scheme
	Lambda                  int
	Weights                 []int
	ReconstructionThreshold int
	PrivacyThreshold        int
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: "text",
	}
}

// Settings loads the configuration file and applies command line overrides.
func (c *Config) Settings() (*config.Config, error) {
	settings, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if c.Lambda > 0 {
		settings.Scheme.Lambda = c.Lambda
	}
	if len(c.Weights) > 0 {
		settings.Scheme.Weights = append([]int(nil), c.Weights...)
		settings.Scheme.Shareholders = len(c.Weights)
	}
	if c.ReconstructionThreshold > 0 {
		settings.Scheme.ReconstructionThreshold = c.ReconstructionThreshold
	}
	if c.PrivacyThreshold > 0 {
		settings.Scheme.PrivacyThreshold = c.PrivacyThreshold
	}
	if c.Verbose {
		settings.Logging.Level = "debug"
	}
	if c.MetricsTextfile != "" {
		settings.Metrics.Textfile = c.MetricsTextfile
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// Random returns the seeded reader when a seed was given, otherwise the
// configured randomness source.
func (c *Config) Random(settings *config.Config) (rng.Resolver, error) {
	if c.Seed != "" {
		return rng.NewSeededResolver([]byte(c.Seed))
	}
	return rng.NewResolver(settings.ResolverConfig())
}

// Logger builds a logger writing to w with the configured level and format.
func (c *Config) Logger(settings *config.Config, w io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
		Writer: w,
	})
}

// generationContext bounds prime sampling by the configured timeout.
func generationContext(ctx context.Context, settings *config.Config) (context.Context, context.CancelFunc) {
	if settings.Generation.Timeout > 0 {
		return context.WithTimeout(ctx, settings.Generation.Timeout)
	}
	return context.WithCancel(ctx)
}
