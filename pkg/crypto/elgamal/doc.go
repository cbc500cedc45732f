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

// Package elgamal implements ElGamal over the prime-order subgroup of a
// safe-prime field, with hybrid encryption through a randomness extractor
// and a hash commitment on the session key.
//
// The group is Z_p* with p = 2q+1 and q prime; the generator g spans the
// subgroup of quadratic residues of order q. Encryption of m under public
// key h = g^x produces
//
//	c1 = g^r
//	k  = h^r
//	c2 = m XOR Extract(seed, k)
//	hk = Commit(k)
//
// for a fresh exponent r and a fresh 32-byte seed. The commitment lets a
// threshold combiner identify the correct session key among several
// candidates without revealing it.
//
// Extract is HKDF-SHA256 keyed by the session key with the seed as info and
// yields 256 bits, so integer messages must lie in [0, 2^256). Seal and
// Open wrap arbitrary-length payloads in ChaCha20-Poly1305 under the same
// extracted key.
package elgamal
