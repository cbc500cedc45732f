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
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

const (
	// SeedSize is the extractor seed length in bytes.
	SeedSize = 32

	// ExtractSize is the extractor output length in bytes.
	ExtractSize = 32

	// CommitmentSize is the commitment length in bytes.
	CommitmentSize = sha256.Size

	commitmentLabel = "go-wrss/elgamal/commitment/v1"
)

// MaxMessageBits is the width of messages accepted by Encrypt.
const MaxMessageBits = ExtractSize * 8

// Extract derives ExtractSize uniform bytes from the session key k using
// HKDF-SHA256 with seed as info.
func Extract(seed []byte, k *big.Int) ([]byte, error) {
	if k == nil {
		return nil, fmt.Errorf("session key cannot be nil")
	}
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrInvalidCiphertext, SeedSize, len(seed))
	}

	reader := hkdf.New(sha256.New, k.Bytes(), nil, seed)
	out := make([]byte, ExtractSize)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("HKDF derivation failed: %w", err)
	}
	return out, nil
}

// Commit returns the SHA-256 commitment to the session key k.
func Commit(k *big.Int) []byte {
	h := sha256.New()
	h.Write([]byte(commitmentLabel))
	h.Write(k.Bytes())
	return h.Sum(nil)
}

// VerifyCommitment reports in constant time whether k matches commitment.
func VerifyCommitment(k *big.Int, commitment []byte) bool {
	if k == nil {
		return false
	}
	return subtle.ConstantTimeCompare(Commit(k), commitment) == 1
}
