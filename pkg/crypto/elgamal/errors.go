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

import "errors"

var (
	// ErrInvalidGroup is returned when group parameters are malformed:
	// p != 2q+1, either value composite, or g not of order q.
	ErrInvalidGroup = errors.New("elgamal: invalid group")

	// ErrMessageTooLarge is returned when a message does not fit in the
	// extractor output width.
	ErrMessageTooLarge = errors.New("elgamal: message exceeds extractor width")

	// ErrInvalidKey is returned for keys outside their valid range.
	ErrInvalidKey = errors.New("elgamal: invalid key")

	// ErrInvalidCiphertext is returned for malformed ciphertexts.
	ErrInvalidCiphertext = errors.New("elgamal: invalid ciphertext")

	// ErrCommitmentMismatch is returned when a session key does not match
	// the ciphertext commitment.
	ErrCommitmentMismatch = errors.New("elgamal: session key does not match commitment")

	// ErrAuthenticationFailed is returned when an envelope fails to open.
	ErrAuthenticationFailed = errors.New("elgamal: envelope authentication failed")
)
