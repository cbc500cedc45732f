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
	"crypto/cipher"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/chacha20poly1305"
)

// Envelope carries an arbitrary-length payload sealed with
// ChaCha20-Poly1305 under the extracted session key.
type Envelope struct {
	C1         *big.Int `json:"c1"`
	Seed       []byte   `json:"seed"`
	Commitment []byte   `json:"commitment"`
	Nonce      []byte   `json:"nonce"`
	Sealed     []byte   `json:"sealed"`
}

// Seal encrypts plaintext of any length under pub, authenticating aad.
func Seal(r io.Reader, pub *PublicKey, plaintext, aad []byte) (*Envelope, error) {
	enc, err := encapsulate(r, pub)
	if err != nil {
		return nil, err
	}
	aead, err := envelopeAEAD(enc.seed, enc.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return &Envelope{
		C1:         enc.c1,
		Seed:       enc.seed,
		Commitment: enc.commitment,
		Nonce:      nonce,
		Sealed:     aead.Seal(nil, nonce, plaintext, aad),
	}, nil
}

// Open decrypts env given the session key k.
func Open(env *Envelope, k *big.Int, aad []byte) ([]byte, error) {
	if env == nil || env.C1 == nil || len(env.Nonce) != chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("%w: malformed envelope", ErrInvalidCiphertext)
	}
	if !VerifyCommitment(k, env.Commitment) {
		return nil, ErrCommitmentMismatch
	}
	aead, err := envelopeAEAD(env.Seed, k)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}

// OpenWithKey opens env with the full private key.
func OpenWithKey(priv *PrivateKey, env *Envelope, aad []byte) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: malformed envelope", ErrInvalidCiphertext)
	}
	k, err := priv.SessionKey(env.C1)
	if err != nil {
		return nil, err
	}
	return Open(env, k, aad)
}

func envelopeAEAD(seed []byte, k *big.Int) (cipher.AEAD, error) {
	key, err := Extract(seed, k)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}
	return aead, nil
}
