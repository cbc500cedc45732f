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

// Package threshold implements threshold ElGamal decryption over shares of
// the weighted CRT ramp scheme.
//
// The private exponent x is dealt with secretsharing using the subgroup
// order q as the field order, so every shareholder i holds S mod p_i where
// S = x + q·u. For a quorum Q with P_S = Π_{j∈Q} p_j, shareholder i
// publishes
//
//	μ_i = c1^((s_i·λ_i mod P_S) mod q) mod p
//
// where λ_i is its CRT coefficient within Q. The exponents sum to
// (S mod P_S) + j·P_S for some j in [0, |Q|], so the combiner multiplies
// the partials and tries every j, accepting the candidate whose hash
// matches the ciphertext commitment. When Q is below the reconstruction
// threshold no candidate matches and ErrReconstructionFailed is returned.
//
// Partial decryptions are pure functions of public data and one share and
// may run concurrently; CombineAndSearch is the barrier that joins them.
package threshold
