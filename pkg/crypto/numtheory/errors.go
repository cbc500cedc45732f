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

package numtheory

import "errors"

var (
	// ErrNotInvertible is returned when a modular inverse does not exist,
	// i.e. gcd(a, m) != 1. Callers that validated coprimality upstream
	// should treat this as an internal invariant violation.
	ErrNotInvertible = errors.New("numtheory: value is not invertible")

	// ErrNotPrime is returned when a value required to be prime is not.
	ErrNotPrime = errors.New("numtheory: value is not prime")

	// ErrGenerationFailed is returned when a bounded sampling loop exhausts
	// its attempt budget or its context expires before finding a value.
	ErrGenerationFailed = errors.New("numtheory: generation failed")

	// ErrInvalidRange is returned for empty or malformed sampling ranges.
	ErrInvalidRange = errors.New("numtheory: invalid range")
)
