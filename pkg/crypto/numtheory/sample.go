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

package numtheory

import (
	"context"
	"fmt"
	"io"
	"math/big"
)

// primalityRounds is the number of Miller-Rabin rounds used by IsPrime, on
// top of the Baillie-PSW test that math/big always applies.
const primalityRounds = 20

// IsPrime reports whether x is prime with overwhelming probability.
func IsPrime(x *big.Int) bool {
	if x == nil || x.Cmp(two) < 0 {
		return false
	}
	return x.ProbablyPrime(primalityRounds)
}

// RandomInt returns a uniform integer in [0, max) read from r.
// Sampling uses rejection on the minimal number of bits so the result is
// unbiased and the number of bytes consumed depends only on r's output.
func RandomInt(r io.Reader, max *big.Int) (*big.Int, error) {
	if r == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}
	if max == nil || max.Sign() <= 0 {
		return nil, fmt.Errorf("%w: upper bound must be positive", ErrInvalidRange)
	}
	if max.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	bound := new(big.Int).Sub(max, one)
	bitLen := bound.BitLen()
	byteLen := (bitLen + 7) / 8
	// Mask off excess bits in the most significant byte.
	topBits := uint(bitLen % 8)
	if topBits == 0 {
		topBits = 8
	}

	buf := make([]byte, byteLen)
	n := new(big.Int)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[0] &= byte(int(1<<topBits) - 1)
		n.SetBytes(buf)
		if n.Cmp(max) < 0 {
			return n, nil
		}
	}
}

// RandomRange returns a uniform integer in the closed interval [lo, hi].
func RandomRange(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil || lo.Cmp(hi) > 0 {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, lo, hi)
	}
	width := new(big.Int).Sub(hi, lo)
	width.Add(width, one)
	n, err := RandomInt(r, width)
	if err != nil {
		return nil, err
	}
	return n.Add(n, lo), nil
}

// RandomPrimeInRange samples primes uniformly from [lo, hi). Each attempt
// draws a fresh odd candidate; at most attempts candidates are tested before
// ErrGenerationFailed is returned. The accept function, when non-nil, may
// reject otherwise valid primes (e.g. to enforce coprimality with a running
// modulus set).
func RandomPrimeInRange(ctx context.Context, r io.Reader, lo, hi *big.Int, attempts int, accept func(*big.Int) bool) (*big.Int, error) {
	if lo == nil || hi == nil || lo.Cmp(hi) >= 0 {
		return nil, fmt.Errorf("%w: [%v, %v)", ErrInvalidRange, lo, hi)
	}
	if attempts <= 0 {
		return nil, fmt.Errorf("%w: attempt budget must be positive", ErrGenerationFailed)
	}
	last := new(big.Int).Sub(hi, one)

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		candidate, err := RandomRange(r, lo, last)
		if err != nil {
			return nil, err
		}
		if candidate.Bit(0) == 0 {
			candidate.Add(candidate, one)
			if candidate.Cmp(hi) >= 0 {
				continue
			}
		}
		if !IsPrime(candidate) {
			continue
		}
		if accept != nil && !accept(candidate) {
			continue
		}
		return candidate, nil
	}
	return nil, fmt.Errorf("%w: no prime in [%v, %v) after %d attempts", ErrGenerationFailed, lo, hi, attempts)
}

// RandomPrime returns a prime of exactly bits bits.
func RandomPrime(ctx context.Context, r io.Reader, bits, attempts int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("%w: prime size must be at least 2 bits, got %d", ErrInvalidRange, bits)
	}
	lo := new(big.Int).Lsh(one, uint(bits-1))
	hi := new(big.Int).Lsh(one, uint(bits))
	return RandomPrimeInRange(ctx, r, lo, hi, attempts, nil)
}

// SafePrime returns p = 2q + 1 and q where q is a prime of exactly bits
// bits and p is prime. Each attempt draws a fresh candidate q.
func SafePrime(ctx context.Context, r io.Reader, bits, attempts int) (p, q *big.Int, err error) {
	if bits < 2 {
		return nil, nil, fmt.Errorf("%w: prime size must be at least 2 bits, got %d", ErrInvalidRange, bits)
	}
	if attempts <= 0 {
		return nil, nil, fmt.Errorf("%w: attempt budget must be positive", ErrGenerationFailed)
	}
	lo := new(big.Int).Lsh(one, uint(bits-1))
	last := new(big.Int).Lsh(one, uint(bits))
	last.Sub(last, one)

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		q, err = RandomRange(r, lo, last)
		if err != nil {
			return nil, nil, err
		}
		q.SetBit(q, 0, 1)

		// Cheap single-round screening before the full test on both values.
		if !q.ProbablyPrime(1) {
			continue
		}
		p = new(big.Int).Lsh(q, 1)
		p.Add(p, one)
		if !p.ProbablyPrime(1) {
			continue
		}
		if IsPrime(q) && IsPrime(p) {
			return p, q, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: no %d-bit safe prime after %d attempts", ErrGenerationFailed, bits, attempts)
}
