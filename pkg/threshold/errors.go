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

package threshold

import "errors"

var (
	// ErrReconstructionFailed is returned when no search offset yields a
	// key matching the commitment. This is the expected outcome for a
	// quorum below the reconstruction threshold; callers should gather
	// more shareholders rather than retry.
	ErrReconstructionFailed = errors.New("threshold: reconstruction failed, no candidate matches commitment")

	// ErrInvalidQuorum is returned for empty, duplicate or out-of-range
	// quorums, or when a quorum member's share or partial is missing.
	ErrInvalidQuorum = errors.New("threshold: invalid quorum")

	// ErrInvalidPartial is returned when a partial decryption is not a
	// subgroup element.
	ErrInvalidPartial = errors.New("threshold: invalid partial decryption")
)
