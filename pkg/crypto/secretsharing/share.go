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

package secretsharing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// Share is one shareholder's residue of the lifted secret.
type Share struct {
	// Index is the shareholder index in [0, n).
	Index int `json:"index"`

	// Weight is the shareholder's weight w_i.
	Weight int `json:"weight"`

	// Modulus is the shareholder's public modulus p_i.
	Modulus *big.Int `json:"modulus"`

	// Value is the residue S mod p_i.
	Value *big.Int `json:"value"`

	// Checksum is a SHA-256 digest over the other fields for integrity.
	Checksum []byte `json:"checksum"`
}

// NewShare builds a share and computes its checksum.
func NewShare(index, weight int, modulus, value *big.Int) *Share {
	s := &Share{
		Index:   index,
		Weight:  weight,
		Modulus: new(big.Int).Set(modulus),
		Value:   new(big.Int).Set(value),
	}
	s.Checksum = s.checksum()
	return s
}

// Verify checks the share's integrity and that its value is a residue of
// its modulus.
func (s *Share) Verify() error {
	if s == nil || s.Modulus == nil || s.Value == nil {
		return fmt.Errorf("%w: incomplete share", ErrInvalidShare)
	}
	if s.Modulus.Cmp(one) <= 0 {
		return fmt.Errorf("%w: share %d has modulus <= 1", ErrInvalidShare, s.Index)
	}
	if s.Value.Sign() < 0 || s.Value.Cmp(s.Modulus) >= 0 {
		return fmt.Errorf("%w: share %d value out of range", ErrInvalidShare, s.Index)
	}
	if subtle.ConstantTimeCompare(s.Checksum, s.checksum()) != 1 {
		return fmt.Errorf("%w: checksum mismatch for share %d", ErrInvalidShare, s.Index)
	}
	return nil
}

// String describes the share without revealing its value.
func (s *Share) String() string {
	return fmt.Sprintf("Share{Index: %d, Weight: %d, Modulus: %d bits}", s.Index, s.Weight, s.Modulus.BitLen())
}

func (s *Share) checksum() []byte {
	h := sha256.New()
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(s.Index))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(s.Weight))
	h.Write(hdr[:])
	writeLengthPrefixed(h, s.Modulus.Bytes())
	writeLengthPrefixed(h, s.Value.Bytes())
	return h.Sum(nil)
}

func writeLengthPrefixed(w io.Writer, b []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b)))
	w.Write(n[:])
	w.Write(b)
}
