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

// Package numtheory provides the big-integer arithmetic the weighted CRT
// secret sharing scheme and the ElGamal engine are built on: an iterative
// extended Euclidean algorithm, modular inverses, primality helpers and
// bounded random sampling from an injected io.Reader.
//
// All functions are pure with respect to their inputs. Results are always
// freshly allocated; arguments are never modified.
package numtheory

import (
	"fmt"
	"math/big"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// ExtendedGCD returns g = gcd(a, b) together with Bézout coefficients x and
// y such that a*x + b*y = g. The algorithm is iterative so arbitrarily large
// operands carry no recursion-depth risk.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(q, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(q, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}

	// Normalize so the gcd is non-negative.
	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// GCD returns gcd(a, b) as a non-negative integer.
func GCD(a, b *big.Int) *big.Int {
	g, _, _ := ExtendedGCD(a, b)
	return g
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// ModInverse returns x in [0, m) with a*x ≡ 1 (mod m).
// Returns ErrNotInvertible when gcd(a, m) != 1 or m < 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive", ErrNotInvertible)
	}
	reduced := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(reduced, m)
	if g.Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: gcd(%s, %s) = %s", ErrNotInvertible, a, m, g)
	}
	return x.Mod(x, m), nil
}

// Product returns the product of all values. The empty product is 1.
func Product(values []*big.Int) *big.Int {
	p := big.NewInt(1)
	for _, v := range values {
		p.Mul(p, v)
	}
	return p
}
