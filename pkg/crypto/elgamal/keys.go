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

// PublicKey is an ElGamal public key h = g^x mod p.
type PublicKey struct {
	Group *Group   `json:"group"`
	H     *big.Int `json:"h"`
}

// PrivateKey holds the secret exponent x in [1, q-1]. In the threshold
// flow x is the value dealt to shareholders and this struct never leaves
// the dealer.
type PrivateKey struct {
	PublicKey
	X *big.Int `json:"-"`
}

// Public returns the public half of the key pair.
func (k *PrivateKey) Public() *PublicKey {
	return &k.PublicKey
}

// Validate checks that H is a subgroup element other than the identity.
func (k *PublicKey) Validate() error {
	if k == nil || k.Group == nil {
		return fmt.Errorf("%w: missing group", ErrInvalidKey)
	}
	if !k.Group.Contains(k.H) || k.H.Cmp(one) == 0 {
		return fmt.Errorf("%w: public key is not a subgroup element", ErrInvalidKey)
	}
	return nil
}

// GenerateKey samples a fresh group of the given size and a key pair in it.
func GenerateKey(ctx context.Context, r io.Reader, bits, attempts int) (*PrivateKey, error) {
	group, err := SampleGroup(ctx, r, bits, attempts)
	if err != nil {
		return nil, err
	}
	return NewKeyPair(r, group)
}

// NewKeyPair samples x uniformly from [1, q-1] and returns x with h = g^x.
func NewKeyPair(r io.Reader, group *Group) (*PrivateKey, error) {
	if group == nil || group.Q == nil || group.Q.Cmp(two) <= 0 {
		return nil, fmt.Errorf("%w: subgroup order too small", ErrInvalidGroup)
	}
	x, err := sampleExponent(r, group.Q)
	if err != nil {
		return nil, fmt.Errorf("sample private key: %w", err)
	}
	return &PrivateKey{
		PublicKey: PublicKey{Group: group, H: group.Exp(group.G, x)},
		X:         x,
	}, nil
}

// sampleExponent returns a uniform value in [1, q-1].
func sampleExponent(r io.Reader, q *big.Int) (*big.Int, error) {
	return numtheory.RandomRange(r, one, new(big.Int).Sub(q, one))
}
