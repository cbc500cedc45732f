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

package elgamal

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/jeremyhahn/go-wrss/pkg/crypto/numtheory"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Group holds safe-prime group parameters.
type Group struct {
	// P is the safe prime modulus 2Q+1.
	P *big.Int `json:"p"`
	// Q is the prime order of the subgroup generated by G.
	Q *big.Int `json:"q"`
	// G generates the order-Q subgroup.
	G *big.Int `json:"g"`
}

// Validate checks that P = 2Q+1 with both prime and that G has order Q.
func (g *Group) Validate() error {
	if g == nil || g.P == nil || g.Q == nil || g.G == nil {
		return fmt.Errorf("%w: missing parameters", ErrInvalidGroup)
	}
	expected := new(big.Int).Lsh(g.Q, 1)
	expected.Add(expected, one)
	if expected.Cmp(g.P) != 0 {
		return fmt.Errorf("%w: p != 2q+1", ErrInvalidGroup)
	}
	if !numtheory.IsPrime(g.Q) || !numtheory.IsPrime(g.P) {
		return fmt.Errorf("%w: p and q must be prime", ErrInvalidGroup)
	}
	if !g.isSubgroupElement(g.G) || g.G.Cmp(one) == 0 {
		return fmt.Errorf("%w: generator does not have order q", ErrInvalidGroup)
	}
	return nil
}

// Contains reports whether x is an element of the order-Q subgroup.
func (g *Group) Contains(x *big.Int) bool {
	return g.isSubgroupElement(x)
}

// Exp returns base^e mod P.
func (g *Group) Exp(base, e *big.Int) *big.Int {
	return new(big.Int).Exp(base, e, g.P)
}

// Bits returns the bit length of the subgroup order.
func (g *Group) Bits() int {
	return g.Q.BitLen()
}

func (g *Group) isSubgroupElement(x *big.Int) bool {
	if x == nil || x.Sign() <= 0 || x.Cmp(g.P) >= 0 {
		return false
	}
	return new(big.Int).Exp(x, g.Q, g.P).Cmp(one) == 0
}

// SampleGroup samples a safe prime p = 2q+1 with q of exactly bits bits
// and returns the group with its smallest generator of order q.
func SampleGroup(ctx context.Context, r io.Reader, bits, attempts int) (*Group, error) {
	p, q, err := numtheory.SafePrime(ctx, r, bits, attempts)
	if err != nil {
		return nil, fmt.Errorf("sample group: %w", err)
	}
	g, err := FindGenerator(p, q)
	if err != nil {
		return nil, err
	}
	return &Group{P: p, Q: q, G: g}, nil
}

// FindGenerator returns the smallest g >= 2 of order q in Z_p*. q must
// divide p-1; for a safe prime the elements of order 2 are excluded.
func FindGenerator(p, q *big.Int) (*big.Int, error) {
	if p == nil || q == nil || q.Sign() <= 0 {
		return nil, fmt.Errorf("%w: missing parameters", ErrInvalidGroup)
	}
	pm1 := new(big.Int).Sub(p, one)
	if new(big.Int).Mod(pm1, q).Sign() != 0 {
		return nil, fmt.Errorf("%w: q does not divide p-1", ErrInvalidGroup)
	}
	t := new(big.Int)
	for g := big.NewInt(2); g.Cmp(pm1) < 0; g.Add(g, one) {
		if t.Exp(g, q, p).Cmp(one) != 0 {
			continue
		}
		if t.Exp(g, two, p).Cmp(one) == 0 {
			continue
		}
		return new(big.Int).Set(g), nil
	}
	return nil, fmt.Errorf("%w: no generator of order %v", ErrInvalidGroup, q)
}
