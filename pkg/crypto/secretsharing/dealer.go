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

package secretsharing

import (
	"context"
	"fmt"
	"io"
	"math/big"

	rng "github.com/jeremyhahn/go-wrss/pkg/crypto/rand"
	"github.com/jeremyhahn/go-wrss/pkg/logging"
)

// DefaultMaxAttempts bounds the candidates tested per sampled prime.
const DefaultMaxAttempts = 100000

// Config configures a Dealer.
type Config struct {
	// Params are the scheme parameters.
	Params Params

	// FieldOrder optionally supplies p_0. It must be prime. When nil a
	// λ-bit prime is sampled.
	FieldOrder *big.Int

	// Moduli optionally supplies the shareholder moduli. When nil they
	// are sampled to the sizes required by the weights.
	Moduli []*big.Int

	// SafePrimeField samples p_0 as the order of a safe-prime subgroup so
	// the same value can serve as an ElGamal group order.
	SafePrimeField bool

	// MaxAttempts bounds the candidates tested per sampled prime.
	// Default: DefaultMaxAttempts
	MaxAttempts int

	// Random is the randomness source. Default: crypto/rand.
	Random io.Reader

	// Logger receives setup diagnostics. Default: discard.
	Logger *logging.Logger
}

// Dealer holds the immutable setup of a sharing session and deals
// secrets against it. A Dealer is safe for concurrent use provided its
// Random source is.
type Dealer struct {
	params      Params
	fieldOrder  *big.Int
	moduli      []*big.Int
	calibration *Calibration
	random      io.Reader
	logger      *logging.Logger
}

// Dealing is the output of distributing one secret.
type Dealing struct {
	// Lifted is S = s + p_0·u. It is secret and must not leave the dealer.
	Lifted *big.Int

	// Shares holds one share per weight, in shareholder order.
	Shares []*Share

	FieldOrder *big.Int
	Moduli     []*big.Int
	Scaling    int
}

// NewDealer validates cfg, samples or validates p_0 and the moduli, and
// calibrates the masking bound.
func NewDealer(ctx context.Context, cfg *Config) (*Dealer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", ErrInvalidInput)
	}
	calibrator, err := NewCalibrator(cfg.Params)
	if err != nil {
		return nil, err
	}

	random := cfg.Random
	if random == nil {
		random = &rng.SoftwareResolver{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	params := cfg.Params
	params.Weights = append([]int(nil), cfg.Params.Weights...)
	if params.Lambda < MinimumLambda {
		logger.Warn("security parameter below recommended minimum",
			"lambda", params.Lambda, "minimum", MinimumLambda)
	}

	fieldOrder := cfg.FieldOrder
	if fieldOrder != nil {
		if err := ValidateFieldOrder(fieldOrder); err != nil {
			return nil, err
		}
		fieldOrder = new(big.Int).Set(fieldOrder)
	} else {
		fieldOrder, err = GenerateFieldOrder(ctx, random, params.Lambda, cfg.SafePrimeField, attempts)
		if err != nil {
			return nil, err
		}
		logger.Debug("sampled field order", "bits", fieldOrder.BitLen(), "safe", cfg.SafePrimeField)
	}

	bits := calibrator.ModulusBits()
	var moduli []*big.Int
	if cfg.Moduli != nil {
		if err := ValidateModuli(fieldOrder, cfg.Moduli, bits); err != nil {
			return nil, err
		}
		moduli = copyInts(cfg.Moduli)
	} else {
		moduli, err = GenerateModuli(ctx, random, fieldOrder, bits, attempts)
		if err != nil {
			return nil, err
		}
		logger.Debug("sampled moduli", "count", len(moduli), "scaling", calibrator.Scaling())
	}

	calibration, err := calibrator.Calibrate(fieldOrder, moduli)
	if err != nil {
		return nil, err
	}
	logger.Debug("calibrated masking bound",
		"p_min_bits", calibration.PMin.BitLen(),
		"p_max_bits", calibration.PMax.BitLen(),
		"l_bits", calibration.L.BitLen())

	return &Dealer{
		params:      params,
		fieldOrder:  fieldOrder,
		moduli:      moduli,
		calibration: calibration,
		random:      random,
		logger:      logger,
	}, nil
}

// Setup creates a Dealer from cfg and distributes secret in one call.
func Setup(ctx context.Context, cfg *Config, secret *big.Int) (*Dealer, *Dealing, error) {
	dealer, err := NewDealer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	dealing, err := dealer.Distribute(secret)
	if err != nil {
		return nil, nil, err
	}
	return dealer, dealing, nil
}

// Distribute deals secret with a fresh mask. The moduli and calibration
// are reused across calls.
func (d *Dealer) Distribute(secret *big.Int) (*Dealing, error) {
	lifted, values, err := Distribute(d.random, secret, d.fieldOrder, d.moduli, d.calibration.L)
	if err != nil {
		return nil, err
	}
	shares := make([]*Share, len(values))
	for i, v := range values {
		shares[i] = NewShare(i, d.params.Weights[i], d.moduli[i], v)
	}
	return &Dealing{
		Lifted:     lifted,
		Shares:     shares,
		FieldOrder: new(big.Int).Set(d.fieldOrder),
		Moduli:     copyInts(d.moduli),
		Scaling:    d.calibration.Scaling,
	}, nil
}

// Params returns a copy of the dealer's parameters.
func (d *Dealer) Params() Params {
	p := d.params
	p.Weights = append([]int(nil), d.params.Weights...)
	return p
}

// FieldOrder returns p_0.
func (d *Dealer) FieldOrder() *big.Int {
	return new(big.Int).Set(d.fieldOrder)
}

// Moduli returns a copy of the shareholder moduli.
func (d *Dealer) Moduli() []*big.Int {
	return copyInts(d.moduli)
}

// Calibration returns the bounds computed at setup.
func (d *Dealer) Calibration() Calibration {
	c := *d.calibration
	return c
}

// QuorumModuli returns the moduli of the shareholders in quorum, in quorum
// order.
func (d *Dealer) QuorumModuli(quorum []int) ([]*big.Int, error) {
	if err := ValidateQuorum(quorum, len(d.moduli)); err != nil {
		return nil, err
	}
	out := make([]*big.Int, len(quorum))
	for i, idx := range quorum {
		out[i] = new(big.Int).Set(d.moduli[idx])
	}
	return out, nil
}

func copyInts(in []*big.Int) []*big.Int {
	out := make([]*big.Int, len(in))
	for i, v := range in {
		out[i] = new(big.Int).Set(v)
	}
	return out
}
