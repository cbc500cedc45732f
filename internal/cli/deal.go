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
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-wrss/pkg/metrics"
)

func newDealCommand(cfg *Config) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Share a secret over the configured weights",
		Long: `Sample a field order p_0 and the shareholder moduli, then share the
secret. The secret must lie in [0, p_0); with the default λ any integer
below 2^(λ-1) is accepted.`,
		Example: `  wrss deal --secret 123456789 --lambda 128 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := new(big.Int).SetString(secret, 0)
			if !ok {
				return fmt.Errorf("invalid secret: %q", secret)
			}
			settings, err := cfg.Settings()
			if err != nil {
				return err
			}
			dealer, random, err := newDealer(cmd, cfg, settings)
			if err != nil {
				return err
			}
			defer random.Close()

			start := time.Now()
			dealing, err := dealer.Distribute(s)
			if err != nil {
				metrics.RecordOperation(metrics.OpDeal, metrics.StatusError, time.Since(start).Seconds())
				metrics.RecordError(metrics.OpDeal, "invalid_input")
				return err
			}
			metrics.RecordOperation(metrics.OpDeal, metrics.StatusSuccess, time.Since(start).Seconds())

			report := &DealReport{
				FieldOrder: dealing.FieldOrder.Text(16),
				Scaling:    dealing.Scaling,
				Shares:     make([]ShareReport, len(dealing.Shares)),
			}
			for i, share := range dealing.Shares {
				report.Shares[i] = ShareReport{
					Index:       share.Index,
					Weight:      share.Weight,
					ModulusBits: share.Modulus.BitLen(),
					Modulus:     share.Modulus.Text(16),
					Value:       share.Value.Text(16),
					Checksum:    hex.EncodeToString(share.Checksum),
				}
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintDealing(report)
		},
	}
	cmd.Flags().StringVarP(&secret, "secret", "s", "",
		"secret to share, decimal or 0x-prefixed hex")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}
