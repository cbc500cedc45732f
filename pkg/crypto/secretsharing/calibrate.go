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
	"fmt"
	"math/big"
)

// Calibration holds the bounds derived from a concrete set of moduli.
type Calibration struct {
	// Scaling is the constant c; modulus i has c·w_i bits.
	Scaling int
	// PMin is the smallest product of moduli over any quorum of weight >= T.
	PMin *big.Int
	// PMax is the largest product of moduli over any coalition of weight <= t.
	PMax *big.Int
	// Lower is the privacy bound P_max·2^λ + 1.
	Lower *big.Int
	// Upper is the correctness bound ⌊P_min/p_0⌋ - 1.
	Upper *big.Int
	// L is the masking bound; the mask u is drawn uniformly from [1, L].
	L *big.Int
}

// Calibrator derives moduli bit lengths and the masking bound for Params.
type Calibrator struct {
	params  Params
	scaling int
}

// NewCalibrator validates params and computes the scaling constant.
func NewCalibrator(params Params) (*Calibrator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Weights = append([]int(nil), params.Weights...)
	return &Calibrator{params: params, scaling: params.ScalingConstant()}, nil
}

// Scaling returns the scaling constant c.
func (c *Calibrator) Scaling() int {
	return c.scaling
}

// ModulusBits returns the required bit length c·w_i of every modulus.
func (c *Calibrator) ModulusBits() []int {
	bits := make([]int, len(c.params.Weights))
	for i, w := range c.params.Weights {
		bits[i] = c.scaling * w
	}
	return bits
}

// Calibrate computes P_min, P_max and the masking bound L for the given
// field order and moduli. L is the largest value satisfying the correctness
// bound (L+1)·p_0 < P_min; it fails with *InfeasibleParametersError when
// that value is below the privacy bound P_max·2^λ + 1.
func (c *Calibrator) Calibrate(fieldOrder *big.Int, moduli []*big.Int) (*Calibration, error) {
	if fieldOrder == nil || fieldOrder.Sign() <= 0 {
		return nil, fmt.Errorf("%w: field order must be positive", ErrInvalidInput)
	}
	if len(moduli) != len(c.params.Weights) {
		return nil, fmt.Errorf("%w: expected %d moduli, got %d", ErrInvalidInput, len(c.params.Weights), len(moduli))
	}
	for i, m := range moduli {
		if m == nil || m.Cmp(one) <= 0 {
			return nil, fmt.Errorf("%w: modulus %d must be greater than one", ErrInvalidInput, i)
		}
	}

	pMin, err := minAuthorizedProduct(c.params.Weights, moduli, c.params.ReconstructionThreshold)
	if err != nil {
		return nil, err
	}
	pMax := maxUnauthorizedProduct(c.params.Weights, moduli, c.params.PrivacyThreshold)

	upper := new(big.Int).Quo(pMin, fieldOrder)
	upper.Sub(upper, one)

	lower := new(big.Int).Lsh(pMax, uint(c.params.Lambda))
	lower.Add(lower, one)

	if upper.Sign() <= 0 || lower.Cmp(upper) > 0 {
		return nil, &InfeasibleParametersError{
			Lambda:     c.params.Lambda,
			FieldOrder: new(big.Int).Set(fieldOrder),
			PMin:       pMin,
			PMax:       pMax,
			Lower:      lower,
			Upper:      upper,
		}
	}

	return &Calibration{
		Scaling: c.scaling,
		PMin:    pMin,
		PMax:    pMax,
		Lower:   lower,
		Upper:   upper,
		L:       new(big.Int).Set(upper),
	}, nil
}

// minAuthorizedProduct returns the minimum product of moduli over all
// subsets whose weight reaches threshold. dp[k] tracks the smallest product
// of a subset with weight k, with every weight >= threshold folded into
// dp[threshold].
func minAuthorizedProduct(weights []int, moduli []*big.Int, threshold int) (*big.Int, error) {
	dp := make([]*big.Int, threshold+1)
	dp[0] = big.NewInt(1)
	for i, w := range weights {
		for k := threshold; k >= 0; k-- {
			if dp[k] == nil {
				continue
			}
			nk := min(threshold, k+w)
			candidate := new(big.Int).Mul(dp[k], moduli[i])
			if dp[nk] == nil || candidate.Cmp(dp[nk]) < 0 {
				dp[nk] = candidate
			}
		}
	}
	if dp[threshold] == nil {
		return nil, fmt.Errorf("%w: no quorum reaches weight %d", ErrInvalidThreshold, threshold)
	}
	return dp[threshold], nil
}

// maxUnauthorizedProduct returns the maximum product of moduli over all
// subsets whose weight stays within threshold. The empty set gives 1.
func maxUnauthorizedProduct(weights []int, moduli []*big.Int, threshold int) *big.Int {
	dp := make([]*big.Int, threshold+1)
	dp[0] = big.NewInt(1)
	for i, w := range weights {
		for k := threshold - w; k >= 0; k-- {
			if dp[k] == nil {
				continue
			}
			candidate := new(big.Int).Mul(dp[k], moduli[i])
			if dp[k+w] == nil || candidate.Cmp(dp[k+w]) > 0 {
				dp[k+w] = candidate
			}
		}
	}
	best := big.NewInt(1)
	for _, v := range dp {
		if v != nil && v.Cmp(best) > 0 {
			best = v
		}
	}
	return best
}
