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

// Package secretsharing implements a weighted ramp secret sharing scheme
// over the Chinese Remainder Theorem.
//
// Each of n shareholders carries a positive weight w_i. Any quorum whose
// combined weight reaches the reconstruction threshold T recovers the
// secret exactly; any coalition whose weight is at most the privacy
// threshold t learns a negligible amount about it (statistical distance
// bounded by 2^-λ). Weights between t and T form the ramp gap with no
// guarantee either way.
//
// # Mathematical Foundation
//
// A prime field order p_0 of λ bits hosts the secret s. Every shareholder
// owns a public prime modulus p_i of exactly c·w_i bits, where
//
//	c = ⌈(2λ+1)/(T-t)⌉
//
// so a shareholder's share size grows with its weight. All moduli are
// pairwise coprime and coprime with p_0. The dealer lifts the secret to
//
//	S = s + p_0·u,   u uniform in [1, L]
//
// and hands shareholder i the residue S mod p_i. A quorum Q recovers
// S mod Πp_i by CRT; when its product exceeds S the lift is exact and
// reducing modulo p_0 yields s.
//
// The masking bound L must satisfy
//
//	P_max·2^λ < L   and   (L+1)·p_0 < P_min
//
// where P_min is the smallest modulus product over quorums of weight >= T
// and P_max the largest over coalitions of weight <= t. Both products are
// computed exactly with a subset-weight dynamic program. Setup fails with
// *InfeasibleParametersError when no L exists.
//
// # Usage Example
//
//	dealer, err := secretsharing.NewDealer(ctx, &secretsharing.Config{
//	    Params: secretsharing.Params{
//	        Lambda:                  256,
//	        Shareholders:            5,
//	        ReconstructionThreshold: 25,
//	        PrivacyThreshold:        15,
//	        Weights:                 []int{3, 7, 9, 10, 12},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dealing, err := dealer.Distribute(secret)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Shareholders 0, 3 and 4 have weight 25.
//	quorum := []*secretsharing.Share{dealing.Shares[0], dealing.Shares[3], dealing.Shares[4]}
//	recovered, err := secretsharing.CombineShares(dealer.FieldOrder(), quorum)
//
// # Constraints
//
//   - 0 <= t < T <= Σw_i
//   - len(weights) <= n, every weight >= 1
//   - the secret lies in [0, p_0)
//
// # References
//
//   - Asmuth, Bloom (1983). "A modular approach to key safeguarding"
//   - Mignotte (1983). "How to share a secret"
package secretsharing
