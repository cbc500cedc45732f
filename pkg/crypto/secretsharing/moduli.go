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

	"github.com/jeremyhahn/go-wrss/pkg/crypto/numtheory"
)

var one = big.NewInt(1)

// GenerateFieldOrder samples the secret-sharing field order p_0 as a
// λ-bit prime. When safe is set p_0 is a λ-bit q with 2q+1 also prime.
func GenerateFieldOrder(ctx context.Context, r io.Reader, lambda int, safe bool, attempts int) (*big.Int, error) {
	if safe {
		_, q, err := numtheory.SafePrime(ctx, r, lambda, attempts)
		if err != nil {
			return nil, fmt.Errorf("generate field order: %w", err)
		}
		return q, nil
	}
	p, err := numtheory.RandomPrime(ctx, r, lambda, attempts)
	if err != nil {
		return nil, fmt.Errorf("generate field order: %w", err)
	}
	return p, nil
}

// GenerateModuli samples one prime per entry of bits. Modulus i is drawn
// uniformly from [2^b·m/(m+1), 2^b) with b = bits[i] and m = len(bits), and
// is rejected unless it is coprime with the field order and every modulus
// accepted before it.
func GenerateModuli(ctx context.Context, r io.Reader, fieldOrder *big.Int, bits []int, attempts int) ([]*big.Int, error) {
	if fieldOrder == nil || fieldOrder.Sign() <= 0 {
		return nil, fmt.Errorf("%w: field order must be positive", ErrInvalidInput)
	}
	count := int64(len(bits))
	acc := new(big.Int).Set(fieldOrder)
	moduli := make([]*big.Int, 0, len(bits))

	for i, b := range bits {
		if b < 2 {
			return nil, fmt.Errorf("%w: modulus %d needs at least 2 bits, got %d", ErrInvalidInput, i, b)
		}
		hi := new(big.Int).Lsh(one, uint(b))
		lo := new(big.Int).Mul(hi, big.NewInt(count))
		lo.Quo(lo, big.NewInt(count+1))

		p, err := numtheory.RandomPrimeInRange(ctx, r, lo, hi, attempts, func(candidate *big.Int) bool {
			return numtheory.Coprime(candidate, acc)
		})
		if err != nil {
			return nil, fmt.Errorf("generate modulus %d (%d bits): %w", i, b, err)
		}
		acc.Mul(acc, p)
		moduli = append(moduli, p)
	}
	return moduli, nil
}

// ValidateFieldOrder checks that a caller-supplied field order is prime.
func ValidateFieldOrder(fieldOrder *big.Int) error {
	if fieldOrder == nil || !numtheory.IsPrime(fieldOrder) {
		return fmt.Errorf("%w: field order", ErrNotPrime)
	}
	return nil
}

// ValidateModuli checks caller-supplied moduli: one per entry of bits,
// each exactly bits[i] long, pairwise coprime and coprime with fieldOrder.
func ValidateModuli(fieldOrder *big.Int, moduli []*big.Int, bits []int) error {
	if len(moduli) != len(bits) {
		return fmt.Errorf("%w: expected %d moduli, got %d", ErrInvalidInput, len(bits), len(moduli))
	}
	acc := new(big.Int).Set(fieldOrder)
	for i, m := range moduli {
		if m == nil || m.Cmp(one) <= 0 {
			return fmt.Errorf("%w: modulus %d must be greater than one", ErrInvalidInput, i)
		}
		if m.BitLen() != bits[i] {
			return fmt.Errorf("%w: modulus %d has %d bits, expected %d", ErrInvalidInput, i, m.BitLen(), bits[i])
		}
		if !numtheory.Coprime(m, acc) {
			return fmt.Errorf("%w: modulus %d", ErrNotCoprime, i)
		}
		acc.Mul(acc, m)
	}
	return nil
}
