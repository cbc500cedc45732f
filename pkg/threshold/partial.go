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

package threshold

import (
	"context"
	"fmt"
	"math/big"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/jeremyhahn/go-wrss/pkg/crypto/elgamal"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/numtheory"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/secretsharing"
)

// validateQuorum checks quorum against the moduli count and returns the
// moduli of its members in quorum order.
func validateQuorum(moduli []*big.Int, quorum []int) ([]*big.Int, error) {
	if err := secretsharing.ValidateQuorum(quorum, len(moduli)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuorum, err)
	}
	out := make([]*big.Int, len(quorum))
	for i, idx := range quorum {
		out[i] = moduli[idx]
	}
	return out, nil
}

// PartialDecrypt computes shareholder index's contribution μ_i for the
// ciphertext component c1 within quorum.
func PartialDecrypt(group *elgamal.Group, moduli []*big.Int, quorum []int, index int, share, c1 *big.Int) (*big.Int, error) {
	if group == nil || group.P == nil || group.Q == nil {
		return nil, fmt.Errorf("%w: missing group", elgamal.ErrInvalidGroup)
	}
	quorumModuli, err := validateQuorum(moduli, quorum)
	if err != nil {
		return nil, err
	}
	pos := slices.Index(quorum, index)
	if pos < 0 {
		return nil, fmt.Errorf("%w: shareholder %d is not in the quorum", ErrInvalidQuorum, index)
	}
	if share == nil || share.Sign() < 0 {
		return nil, fmt.Errorf("%w: missing share for shareholder %d", ErrInvalidQuorum, index)
	}
	if !group.Contains(c1) {
		return nil, fmt.Errorf("%w: c1 is not a subgroup element", elgamal.ErrInvalidCiphertext)
	}

	coeff, err := secretsharing.LagrangeCoefficient(quorumModuli, pos)
	if err != nil {
		return nil, err
	}
	productS := numtheory.Product(quorumModuli)

	exp := new(big.Int).Mul(share, coeff)
	exp.Mod(exp, productS)
	exp.Mod(exp, group.Q)
	return group.Exp(c1, exp), nil
}

// PartialDecryptQuorum runs PartialDecrypt for every member of quorum
// concurrently. shares may be in any order and must contain exactly one
// verified share per quorum member. The result is aligned with quorum.
func PartialDecryptQuorum(ctx context.Context, group *elgamal.Group, moduli []*big.Int, quorum []int, shares []*secretsharing.Share, c1 *big.Int) ([]*big.Int, error) {
	if _, err := validateQuorum(moduli, quorum); err != nil {
		return nil, err
	}
	byIndex := make(map[int]*secretsharing.Share, len(shares))
	for _, s := range shares {
		if err := s.Verify(); err != nil {
			return nil, err
		}
		byIndex[s.Index] = s
	}

	members := make([]*secretsharing.Share, len(quorum))
	for pos, idx := range quorum {
		share, ok := byIndex[idx]
		if !ok {
			return nil, fmt.Errorf("%w: no share for shareholder %d", ErrInvalidQuorum, idx)
		}
		if share.Modulus.Cmp(moduli[idx]) != 0 {
			return nil, fmt.Errorf("%w: share %d was dealt under a different modulus", ErrInvalidQuorum, idx)
		}
		members[pos] = share
	}

	partials := make([]*big.Int, len(quorum))
	pool, ctx := errgroup.WithContext(ctx)
	pool.SetLimit(runtime.GOMAXPROCS(0))
	for pos, share := range members {
		pool.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mu, err := PartialDecrypt(group, moduli, quorum, share.Index, share.Value, c1)
			if err != nil {
				return fmt.Errorf("partial decryption for shareholder %d: %w", share.Index, err)
			}
			partials[pos] = mu
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}
