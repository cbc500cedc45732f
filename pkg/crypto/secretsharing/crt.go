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
	"io"
	"math/big"

	"github.com/jeremyhahn/go-wrss/pkg/crypto/numtheory"
)

// Distribute lifts secret to S = secret + p_0·u with u uniform in [1, L]
// and returns S together with the residues S mod p_i.
func Distribute(r io.Reader, secret, fieldOrder *big.Int, moduli []*big.Int, bound *big.Int) (*big.Int, []*big.Int, error) {
	if fieldOrder == nil || fieldOrder.Sign() <= 0 {
		return nil, nil, fmt.Errorf("%w: field order must be positive", ErrInvalidInput)
	}
	if secret == nil || secret.Sign() < 0 || secret.Cmp(fieldOrder) >= 0 {
		return nil, nil, fmt.Errorf("%w: secret must lie in [0, p_0)", ErrInvalidInput)
	}
	if bound == nil || bound.Sign() <= 0 {
		return nil, nil, fmt.Errorf("%w: masking bound must be positive", ErrInvalidInput)
	}
	if len(moduli) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one modulus is required", ErrInvalidInput)
	}

	u, err := numtheory.RandomRange(r, one, bound)
	if err != nil {
		return nil, nil, fmt.Errorf("sample mask: %w", err)
	}
	lifted := new(big.Int).Mul(fieldOrder, u)
	lifted.Add(lifted, secret)

	values := make([]*big.Int, len(moduli))
	for i, m := range moduli {
		values[i] = new(big.Int).Mod(lifted, m)
	}
	return lifted, values, nil
}

// Reconstruct recovers the secret from the residues values[i] modulo
// moduli[i] via the Chinese Remainder Theorem, reduced modulo fieldOrder.
// The result equals the dealt secret only when the moduli belong to an
// authorized quorum.
func Reconstruct(fieldOrder *big.Int, moduli, values []*big.Int) (*big.Int, error) {
	lifted, err := Lift(moduli, values)
	if err != nil {
		return nil, err
	}
	if fieldOrder == nil || fieldOrder.Sign() <= 0 {
		return nil, fmt.Errorf("%w: field order must be positive", ErrInvalidInput)
	}
	return lifted.Mod(lifted, fieldOrder), nil
}

// Lift returns the unique x in [0, Πmoduli) with x ≡ values[i] mod moduli[i].
func Lift(moduli, values []*big.Int) (*big.Int, error) {
	if len(moduli) == 0 || len(moduli) != len(values) {
		return nil, fmt.Errorf("%w: need matching non-empty moduli and values, got %d and %d",
			ErrInvalidInput, len(moduli), len(values))
	}
	product := numtheory.Product(moduli)
	sum := new(big.Int)
	term := new(big.Int)
	for i := range moduli {
		if values[i] == nil {
			return nil, fmt.Errorf("%w: value %d is nil", ErrInvalidInput, i)
		}
		coeff, err := lagrange(product, moduli, i)
		if err != nil {
			return nil, err
		}
		term.Mul(values[i], coeff)
		sum.Add(sum, term)
	}
	return sum.Mod(sum, product), nil
}

// LagrangeCoefficient returns λ_i = Q_i·(Q_i^{-1} mod p_i) mod P for the
// i-th modulus, where P = Πmoduli and Q_i = P/p_i.
func LagrangeCoefficient(moduli []*big.Int, i int) (*big.Int, error) {
	if i < 0 || i >= len(moduli) {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidInput, i, len(moduli))
	}
	return lagrange(numtheory.Product(moduli), moduli, i)
}

func lagrange(product *big.Int, moduli []*big.Int, i int) (*big.Int, error) {
	m := moduli[i]
	if m == nil || m.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus %d must be positive", ErrInvalidInput, i)
	}
	q := new(big.Int).Quo(product, m)
	inv, err := numtheory.ModInverse(q, m)
	if err != nil {
		return nil, fmt.Errorf("lagrange coefficient %d: %w", i, err)
	}
	q.Mul(q, inv)
	return q.Mod(q, product), nil
}

// CombineShares verifies shares and reconstructs the secret from them.
func CombineShares(fieldOrder *big.Int, shares []*Share) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares provided", ErrInvalidInput)
	}
	seen := make(map[int]bool, len(shares))
	moduli := make([]*big.Int, len(shares))
	values := make([]*big.Int, len(shares))
	for i, s := range shares {
		if err := s.Verify(); err != nil {
			return nil, err
		}
		if seen[s.Index] {
			return nil, fmt.Errorf("%w: duplicate share index %d", ErrInvalidInput, s.Index)
		}
		seen[s.Index] = true
		moduli[i] = s.Modulus
		values[i] = s.Value
	}
	return Reconstruct(fieldOrder, moduli, values)
}
