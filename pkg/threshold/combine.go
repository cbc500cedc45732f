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

	"github.com/jeremyhahn/go-wrss/pkg/crypto/elgamal"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/numtheory"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/secretsharing"
)

// Result is a recovered session key.
type Result struct {
	// Key is the session key k = h^r.
	Key *big.Int
	// Offset is the search offset j at which the commitment matched.
	Offset int
}

// CombineAndSearch multiplies the partials of quorum (aligned with quorum)
// and searches offsets j in [0, |quorum|] for the candidate
// μ·c1^(-j·P_S mod q) whose commitment matches. It returns
// ErrReconstructionFailed when no offset matches.
func CombineAndSearch(group *elgamal.Group, moduli []*big.Int, quorum []int, partials []*big.Int, c1 *big.Int, commitment []byte) (*Result, error) {
	if group == nil || group.P == nil || group.Q == nil {
		return nil, fmt.Errorf("%w: missing group", elgamal.ErrInvalidGroup)
	}
	quorumModuli, err := validateQuorum(moduli, quorum)
	if err != nil {
		return nil, err
	}
	if len(partials) != len(quorum) {
		return nil, fmt.Errorf("%w: %d partials for %d quorum members", ErrInvalidQuorum, len(partials), len(quorum))
	}
	if !group.Contains(c1) {
		return nil, fmt.Errorf("%w: c1 is not a subgroup element", elgamal.ErrInvalidCiphertext)
	}

	mu := big.NewInt(1)
	for i, partial := range partials {
		if !group.Contains(partial) {
			return nil, fmt.Errorf("%w: partial from shareholder %d", ErrInvalidPartial, quorum[i])
		}
		mu.Mul(mu, partial)
		mu.Mod(mu, group.P)
	}

	productS := numtheory.Product(quorumModuli)
	exp := new(big.Int)
	candidate := new(big.Int)
	for j := 0; j <= len(quorum); j++ {
		exp.Mul(big.NewInt(int64(-j)), productS)
		exp.Mod(exp, group.Q)
		candidate.Exp(c1, exp, group.P)
		candidate.Mul(candidate, mu)
		candidate.Mod(candidate, group.P)
		if elgamal.VerifyCommitment(candidate, commitment) {
			return &Result{Key: new(big.Int).Set(candidate), Offset: j}, nil
		}
	}
	return nil, ErrReconstructionFailed
}

// RecoverKey runs the partial decryptions of quorum concurrently and
// combines them into the session key for (c1, commitment).
func RecoverKey(ctx context.Context, group *elgamal.Group, moduli []*big.Int, quorum []int, shares []*secretsharing.Share, c1 *big.Int, commitment []byte) (*Result, error) {
	partials, err := PartialDecryptQuorum(ctx, group, moduli, quorum, shares, c1)
	if err != nil {
		return nil, err
	}
	return CombineAndSearch(group, moduli, quorum, partials, c1, commitment)
}

// Decrypt recovers the plaintext of ct using the shares of quorum.
func Decrypt(ctx context.Context, group *elgamal.Group, moduli []*big.Int, quorum []int, shares []*secretsharing.Share, ct *elgamal.Ciphertext) (*big.Int, *Result, error) {
	if group == nil || group.P == nil || group.Q == nil {
		return nil, nil, fmt.Errorf("%w: missing group", elgamal.ErrInvalidGroup)
	}
	if err := ct.Validate(group); err != nil {
		return nil, nil, err
	}
	result, err := RecoverKey(ctx, group, moduli, quorum, shares, ct.C1, ct.Commitment)
	if err != nil {
		return nil, nil, err
	}
	m, err := elgamal.Decrypt(ct, result.Key)
	if err != nil {
		return nil, nil, err
	}
	return m, result, nil
}

// Open recovers the payload of env using the shares of quorum.
func Open(ctx context.Context, group *elgamal.Group, moduli []*big.Int, quorum []int, shares []*secretsharing.Share, env *elgamal.Envelope, aad []byte) ([]byte, *Result, error) {
	if group == nil || group.P == nil || group.Q == nil {
		return nil, nil, fmt.Errorf("%w: missing group", elgamal.ErrInvalidGroup)
	}
	if env == nil || !group.Contains(env.C1) {
		return nil, nil, fmt.Errorf("%w: malformed envelope", elgamal.ErrInvalidCiphertext)
	}
	result, err := RecoverKey(ctx, group, moduli, quorum, shares, env.C1, env.Commitment)
	if err != nil {
		return nil, nil, err
	}
	plaintext, err := elgamal.Open(env, result.Key, aad)
	if err != nil {
		return nil, nil, err
	}
	return plaintext, result, nil
}
