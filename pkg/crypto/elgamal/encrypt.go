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
	"fmt"
	"io"
	"math/big"
)

// Ciphertext is the hybrid ElGamal ciphertext (c2, seed, c1, hk).
type Ciphertext struct {
	// C2 is m XOR Extract(Seed, k).
	C2 *big.Int `json:"c2"`
	// Seed is the per-ciphertext extractor seed.
	Seed []byte `json:"seed"`
	// C1 is g^r.
	C1 *big.Int `json:"c1"`
	// Commitment is Commit(k) with k = h^r.
	Commitment []byte `json:"commitment"`
}

// Validate checks the ciphertext shape against group.
func (c *Ciphertext) Validate(group *Group) error {
	if c == nil || c.C2 == nil || c.C1 == nil {
		return fmt.Errorf("%w: missing components", ErrInvalidCiphertext)
	}
	if len(c.Seed) != SeedSize {
		return fmt.Errorf("%w: seed must be %d bytes", ErrInvalidCiphertext, SeedSize)
	}
	if len(c.Commitment) != CommitmentSize {
		return fmt.Errorf("%w: commitment must be %d bytes", ErrInvalidCiphertext, CommitmentSize)
	}
	if group != nil && !group.Contains(c.C1) {
		return fmt.Errorf("%w: c1 is not a subgroup element", ErrInvalidCiphertext)
	}
	return nil
}

// encapsulation is the key-agreement half shared by Encrypt and Seal.
type encapsulation struct {
	c1         *big.Int
	key        *big.Int
	seed       []byte
	commitment []byte
	ephemeral  *big.Int
}

func encapsulate(r io.Reader, pub *PublicKey) (*encapsulation, error) {
	if err := pub.Validate(); err != nil {
		return nil, err
	}
	group := pub.Group
	ephemeral, err := sampleExponent(r, group.Q)
	if err != nil {
		return nil, fmt.Errorf("sample ephemeral exponent: %w", err)
	}
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	key := group.Exp(pub.H, ephemeral)
	return &encapsulation{
		c1:         group.Exp(group.G, ephemeral),
		key:        key,
		seed:       seed,
		commitment: Commit(key),
		ephemeral:  ephemeral,
	}, nil
}

// Encrypt encrypts m, which must lie in [0, 2^MaxMessageBits), under pub.
// It also returns the ephemeral exponent r; callers must discard it outside
// of tests.
func Encrypt(r io.Reader, pub *PublicKey, m *big.Int) (*Ciphertext, *big.Int, error) {
	if m == nil || m.Sign() < 0 {
		return nil, nil, fmt.Errorf("%w: message must be non-negative", ErrMessageTooLarge)
	}
	if m.BitLen() > MaxMessageBits {
		return nil, nil, fmt.Errorf("%w: %d bits > %d", ErrMessageTooLarge, m.BitLen(), MaxMessageBits)
	}
	enc, err := encapsulate(r, pub)
	if err != nil {
		return nil, nil, err
	}
	mask, err := Extract(enc.seed, enc.key)
	if err != nil {
		return nil, nil, err
	}
	c2 := new(big.Int).Xor(m, new(big.Int).SetBytes(mask))
	return &Ciphertext{
		C2:         c2,
		Seed:       enc.seed,
		C1:         enc.c1,
		Commitment: enc.commitment,
	}, enc.ephemeral, nil
}

// Decrypt recovers the message from ct given the session key k. The
// commitment is checked before the mask is derived, so a key that does not
// match ct returns ErrCommitmentMismatch rather than a wrong message.
func Decrypt(ct *Ciphertext, k *big.Int) (*big.Int, error) {
	if err := ct.Validate(nil); err != nil {
		return nil, err
	}
	if !VerifyCommitment(k, ct.Commitment) {
		return nil, ErrCommitmentMismatch
	}
	mask, err := Extract(ct.Seed, k)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Xor(ct.C2, new(big.Int).SetBytes(mask)), nil
}

// SessionKey returns k = c1^x mod p.
func (k *PrivateKey) SessionKey(c1 *big.Int) (*big.Int, error) {
	if k == nil || k.X == nil || k.Group == nil {
		return nil, fmt.Errorf("%w: missing private exponent", ErrInvalidKey)
	}
	if !k.Group.Contains(c1) {
		return nil, fmt.Errorf("%w: c1 is not a subgroup element", ErrInvalidCiphertext)
	}
	return k.Group.Exp(c1, k.X), nil
}

// DecryptWithKey decrypts ct with the full private key. The threshold flow
// never reassembles the key; this exists for single-holder use and for
// cross-checking threshold results.
func DecryptWithKey(priv *PrivateKey, ct *Ciphertext) (*big.Int, error) {
	if err := ct.Validate(priv.Group); err != nil {
		return nil, err
	}
	k, err := priv.SessionKey(ct.C1)
	if err != nil {
		return nil, err
	}
	return Decrypt(ct, k)
}
