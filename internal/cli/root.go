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
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-wrss/pkg/metrics"
)

// NewRootCommand builds the wrss command tree around cfg.
func NewRootCommand(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wrss",
		Short: "wrss - Weighted ramp secret sharing with threshold ElGamal",
		Long: `wrss deals secrets over a weighted ramp CRT secret sharing scheme and
decrypts threshold ElGamal ciphertexts with any authorized quorum.

Shareholder i holds weight w_i. A quorum whose combined weight reaches the
reconstruction threshold recovers the secret; a coalition at or below the
privacy threshold learns nothing about it.

Commands:
  run:       generate a key, deal it, encrypt and decrypt with a quorum
  deal:      share a secret and print the shares
  calibrate: report the moduli sizes and masking bound for a scheme
  config:    write a default configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return writeMetrics(cfg)
		},
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "",
		"config file (defaults plus WRSS_* environment when empty)")
	flags.StringVarP(&cfg.OutputFormat, "output", "o", cfg.OutputFormat,
		"output format (text, json, yaml)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false,
		"debug logging to stderr")
	flags.StringVar(&cfg.Seed, "seed", "",
		"seed a deterministic random source (testing only)")
	flags.StringVar(&cfg.MetricsTextfile, "metrics-textfile", "",
		"write Prometheus metrics to this file on exit")
	flags.IntVar(&cfg.Lambda, "lambda", 0,
		"security parameter λ in bits")
	flags.IntSliceVar(&cfg.Weights, "weights", nil,
		"shareholder weights, comma separated")
	flags.IntVar(&cfg.ReconstructionThreshold, "threshold", 0,
		"reconstruction threshold T")
	flags.IntVar(&cfg.PrivacyThreshold, "privacy-threshold", 0,
		"privacy threshold t")

	// Add subcommands
	rootCmd.AddCommand(newVersionCommand(cfg))
	rootCmd.AddCommand(newRunCommand(cfg))
	rootCmd.AddCommand(newDealCommand(cfg))
	rootCmd.AddCommand(newCalibrateCommand(cfg))
	rootCmd.AddCommand(newConfigCommand(cfg))
	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	cfg := NewConfig()
	rootCmd := NewRootCommand(cfg)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printer := NewPrinter(cfg.OutputFormat, os.Stderr)
		_ = printer.PrintError(err) // Error printing to stderr is best-effort
		return err
	}
	return nil
}

// writeMetrics dumps the default registry when a textfile is configured.
func writeMetrics(cfg *Config) error {
	path := cfg.MetricsTextfile
	if path == "" {
		settings, err := cfg.Settings()
		if err != nil {
			return nil
		}
		if !settings.Metrics.Enabled {
			return nil
		}
		path = settings.Metrics.Textfile
	}
	if path == "" {
		return nil
	}
	metrics.CollectOnce()
	if err := metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
