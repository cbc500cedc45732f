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

package rand

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// SeededResolver is a deterministic CSPRNG: the ChaCha20 keystream under
// a key derived from a caller-provided seed. Identical seeds produce
// identical byte streams, which makes protocol transcripts reproducible in
// tests. It must never be used to generate production key material.
type SeededResolver struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
	closed bool
}

var _ Resolver = (*SeededResolver)(nil)

// NewSeededResolver returns a SeededResolver keyed by SHA-256(seed).
func NewSeededResolver(seed []byte) (*SeededResolver, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("seed cannot be empty")
	}
	key := sha256.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keystream: %w", err)
	}
	return &SeededResolver{cipher: c}, nil
}

func (s *SeededResolver) Rand(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *SeededResolver) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, fmt.Errorf("seeded resolver closed")
	}
	clear(p)
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}

func (s *SeededResolver) Source() Source {
	return s
}

func (s *SeededResolver) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *SeededResolver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
