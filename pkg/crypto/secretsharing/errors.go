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
	"errors"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-wrss/pkg/crypto/numtheory"
)

var (
	// ErrInvalidThreshold is returned when T <= t, when there are more
	// weights than shareholders, or when the total weight cannot reach T.
	ErrInvalidThreshold = errors.New("secretsharing: invalid threshold")

	// ErrNotCoprime is returned when supplied moduli are not pairwise
	// coprime or share a factor with the field order.
	ErrNotCoprime = errors.New("secretsharing: moduli are not pairwise coprime")

	// ErrInfeasibleParameters is returned when no masking bound satisfies
	// both the correctness and the privacy bound. The concrete error is an
	// *InfeasibleParametersError.
	ErrInfeasibleParameters = errors.New("secretsharing: correctness and privacy bounds cannot both be satisfied")

	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("secretsharing: invalid input")

	// ErrInvalidShare is returned when a share fails its integrity check.
	ErrInvalidShare = errors.New("secretsharing: invalid share")

	// Re-exported from numtheory so callers can match on a single package.
	ErrNotPrime         = numtheory.ErrNotPrime
	ErrNotInvertible    = numtheory.ErrNotInvertible
	ErrGenerationFailed = numtheory.ErrGenerationFailed
)

// InfeasibleParametersError reports the bounds that could not be reconciled
// so the caller can adjust weights, thresholds or λ.
type InfeasibleParametersError struct {
	Lambda     int
	FieldOrder *big.Int
	PMin       *big.Int
	PMax       *big.Int
	// Lower is P_max·2^λ + 1, the smallest L meeting the privacy bound.
	Lower *big.Int
	// Upper is ⌊P_min/p_0⌋ - 1, the largest L meeting the correctness bound.
	Upper *big.Int
}

func (e *InfeasibleParametersError) Error() string {
	return fmt.Sprintf("%s: privacy bound needs L >= %d bits but correctness allows at most %d bits (P_min %d bits, P_max %d bits, p_0 %d bits, lambda %d)",
		ErrInfeasibleParameters, e.Lower.BitLen(), e.Upper.BitLen(),
		e.PMin.BitLen(), e.PMax.BitLen(), e.FieldOrder.BitLen(), e.Lambda)
}

// Is reports whether target is ErrInfeasibleParameters.
func (e *InfeasibleParametersError) Is(target error) bool {
	return target == ErrInfeasibleParameters
}
