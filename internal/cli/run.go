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
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-wrss/internal/session"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-wrss/pkg/threshold"
)

func newRunCommand(cfg *Config) *cobra.Command {
	var (
		quorum  []int
		message string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deal a fresh key and decrypt a message with a quorum",
		Long: `Generate a safe-prime group and key pair, deal the private key over the
configured weights, encrypt the message and decrypt it with the shares of
the quorum. An unauthorized quorum is reported, not treated as an error.`,
		Example: `  wrss run --quorum 0,3,4 --message 420420
  wrss run --quorum 2 --lambda 128 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := new(big.Int).SetString(message, 0)
			if !ok {
				return fmt.Errorf("invalid message: %q", message)
			}
			settings, err := cfg.Settings()
			if err != nil {
				return err
			}
			random, err := cfg.Random(settings)
			if err != nil {
				return fmt.Errorf("random source: %w", err)
			}
			logger, err := cfg.Logger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			s, err := session.NewFromConfig(cmd.Context(), settings,
				session.WithRandom(random), session.WithLogger(logger))
			if err != nil {
				_ = random.Close()
				return err
			}
			defer s.Close()

			params := s.Params()
			report := &RunReport{
				Session:                 s.ID(),
				Lambda:                  params.Lambda,
				Scaling:                 s.Scaling(),
				ModulusBits:             modulusBits(s.Moduli()),
				Quorum:                  secretsharing.SortedQuorum(quorum),
				ReconstructionThreshold: params.ReconstructionThreshold,
				PrivacyThreshold:        params.PrivacyThreshold,
				Authorized:              s.Authorized(quorum),
				Message:                 m.String(),
			}
			weight, err := s.QuorumWeight(quorum)
			if err != nil {
				return fmt.Errorf("%w: %w", threshold.ErrInvalidQuorum, err)
			}
			report.QuorumWeight = weight

			ct, err := s.Encrypt(m)
			if err != nil {
				return err
			}
			recovered, res, err := s.Decrypt(cmd.Context(), ct, quorum)
			switch {
			case errors.Is(err, threshold.ErrReconstructionFailed):
				report.Error = err.Error()
			case err != nil:
				return err
			default:
				report.Recovered = recovered.String()
				report.Offset = res.Offset
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintRun(report)
		},
	}
	cmd.Flags().IntSliceVarP(&quorum, "quorum", "q", []int{0, 3, 4},
		"shareholder indices taking part in decryption")
	cmd.Flags().StringVarP(&message, "message", "m", "420420",
		"message to encrypt, an integer below 2^256")
	return cmd
}

func modulusBits(moduli []*big.Int) []int {
	bits := make([]int, len(moduli))
	for i, m := range moduli {
		bits[i] = m.BitLen()
	}
	return bits
}
