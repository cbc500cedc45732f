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
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-wrss/internal/config"
	rng "github.com/jeremyhahn/go-wrss/pkg/crypto/rand"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-wrss/pkg/metrics"
)

func newCalibrateCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "calibrate",
		Short: "Report moduli sizes and the masking bound",
		Long: `Sample a field order and moduli for the configured scheme and report
P_min, P_max and the masking bound interval. Infeasible parameters are
reported with the bounds that failed.`,
		Example: `  wrss calibrate --lambda 128
  wrss calibrate --weights 10,10,10,10,10 --threshold 30 --privacy-threshold 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cfg.Settings()
			if err != nil {
				return err
			}
			params := settings.Params()
			calibrator, err := secretsharing.NewCalibrator(params)
			if err != nil {
				return err
			}
			report := &CalibrationReport{
				Lambda:      params.Lambda,
				Scaling:     calibrator.Scaling(),
				ModulusBits: calibrator.ModulusBits(),
			}

			start := time.Now()
			dealer, random, err := newDealer(cmd, cfg, settings)
			if err == nil {
				defer random.Close()
			}
			var infeasible *secretsharing.InfeasibleParametersError
			switch {
			case errors.As(err, &infeasible):
				metrics.RecordOperation(metrics.OpCalibrate, metrics.StatusError, time.Since(start).Seconds())
				metrics.RecordError(metrics.OpCalibrate, "infeasible_parameters")
				report.FieldOrderBits = infeasible.FieldOrder.BitLen()
				report.PMinBits = infeasible.PMin.BitLen()
				report.PMaxBits = infeasible.PMax.BitLen()
				report.LowerBits = infeasible.Lower.BitLen()
				report.UpperBits = infeasible.Upper.BitLen()
				report.Error = err.Error()
			case err != nil:
				metrics.RecordOperation(metrics.OpCalibrate, metrics.StatusError, time.Since(start).Seconds())
				return err
			default:
				metrics.RecordOperation(metrics.OpCalibrate, metrics.StatusSuccess, time.Since(start).Seconds())
				c := dealer.Calibration()
				report.FieldOrderBits = dealer.FieldOrder().BitLen()
				report.PMinBits = c.PMin.BitLen()
				report.PMaxBits = c.PMax.BitLen()
				report.LowerBits = c.Lower.BitLen()
				report.UpperBits = c.Upper.BitLen()
				report.Feasible = true
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintCalibration(report)
		},
	}
}

// newDealer samples a field order and moduli for settings. The caller
// closes the returned randomness source.
func newDealer(cmd *cobra.Command, cfg *Config, settings *config.Config) (*secretsharing.Dealer, rng.Resolver, error) {
	random, err := cfg.Random(settings)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger(settings, cmd.ErrOrStderr())
	if err != nil {
		_ = random.Close()
		return nil, nil, err
	}
	ctx, cancel := generationContext(cmd.Context(), settings)
	defer cancel()

	dealer, err := secretsharing.NewDealer(ctx, &secretsharing.Config{
		Params:         settings.Params(),
		SafePrimeField: settings.Scheme.SafePrimeField,
		MaxAttempts:    settings.Generation.MaxAttempts,
		Random:         random,
		Logger:         logger.With("command", cmd.Name()),
	})
	if err != nil {
		_ = random.Close()
		return nil, nil, err
	}
	return dealer, random, nil
}
