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
	"fmt"
	"sort"
)

// MinimumLambda is the smallest security parameter that does not trigger a
// warning during setup.
const MinimumLambda = 128

// Params are the static parameters of a sharing session.
type Params struct {
	// Lambda is the security parameter λ in bits.
	Lambda int `json:"lambda" yaml:"lambda"`

	// Shareholders is the shareholder count n.
	Shareholders int `json:"shareholders" yaml:"shareholders"`

	// ReconstructionThreshold is T: any quorum of weight >= T recovers the secret.
	ReconstructionThreshold int `json:"reconstruction_threshold" yaml:"reconstruction_threshold"`

	// PrivacyThreshold is t: any coalition of weight <= t learns nothing.
	PrivacyThreshold int `json:"privacy_threshold" yaml:"privacy_threshold"`

	// Weights holds one positive weight per shareholder.
	Weights []int `json:"weights" yaml:"weights"`
}

// Validate checks the parameter invariants.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: params cannot be nil", ErrInvalidInput)
	}
	if p.Lambda < 2 {
		return fmt.Errorf("%w: security parameter must be at least 2 bits, got %d", ErrInvalidInput, p.Lambda)
	}
	if p.Shareholders < 1 {
		return fmt.Errorf("%w: shareholder count must be positive, got %d", ErrInvalidInput, p.Shareholders)
	}
	if len(p.Weights) == 0 {
		return fmt.Errorf("%w: at least one weight is required", ErrInvalidInput)
	}
	if len(p.Weights) > p.Shareholders {
		return fmt.Errorf("%w: %d weights exceed %d shareholders", ErrInvalidThreshold, len(p.Weights), p.Shareholders)
	}
	for i, w := range p.Weights {
		if w < 1 {
			return fmt.Errorf("%w: weight %d must be positive, got %d", ErrInvalidInput, i, w)
		}
	}
	if p.PrivacyThreshold < 0 {
		return fmt.Errorf("%w: privacy threshold must be non-negative, got %d", ErrInvalidThreshold, p.PrivacyThreshold)
	}
	if p.ReconstructionThreshold <= p.PrivacyThreshold {
		return fmt.Errorf("%w: reconstruction threshold (%d) must exceed privacy threshold (%d)",
			ErrInvalidThreshold, p.ReconstructionThreshold, p.PrivacyThreshold)
	}
	if total := p.TotalWeight(); total < p.ReconstructionThreshold {
		return fmt.Errorf("%w: total weight %d cannot reach reconstruction threshold %d",
			ErrInvalidThreshold, total, p.ReconstructionThreshold)
	}
	return nil
}

// TotalWeight returns the sum of all weights.
func (p *Params) TotalWeight() int {
	total := 0
	for _, w := range p.Weights {
		total += w
	}
	return total
}

// ScalingConstant returns c = ⌈(2λ+1)/(T-t)⌉. Params must be valid.
func (p *Params) ScalingConstant() int {
	gap := p.ReconstructionThreshold - p.PrivacyThreshold
	return (2*p.Lambda + 1 + gap - 1) / gap
}

// QuorumWeight returns the combined weight of the shareholders in quorum.
// Indices must be distinct and within range.
func (p *Params) QuorumWeight(quorum []int) (int, error) {
	if err := ValidateQuorum(quorum, len(p.Weights)); err != nil {
		return 0, err
	}
	total := 0
	for _, i := range quorum {
		total += p.Weights[i]
	}
	return total, nil
}

// Authorized reports whether quorum reaches the reconstruction threshold.
func (p *Params) Authorized(quorum []int) bool {
	w, err := p.QuorumWeight(quorum)
	return err == nil && w >= p.ReconstructionThreshold
}

// ValidateQuorum checks that quorum is a non-empty set of distinct indices
// in [0, size).
func ValidateQuorum(quorum []int, size int) error {
	if len(quorum) == 0 {
		return fmt.Errorf("%w: quorum cannot be empty", ErrInvalidInput)
	}
	seen := make(map[int]bool, len(quorum))
	for _, i := range quorum {
		if i < 0 || i >= size {
			return fmt.Errorf("%w: shareholder index %d out of range [0, %d)", ErrInvalidInput, i, size)
		}
		if seen[i] {
			return fmt.Errorf("%w: duplicate shareholder index %d", ErrInvalidInput, i)
		}
		seen[i] = true
	}
	return nil
}

// SortedQuorum returns a sorted copy of quorum.
func SortedQuorum(quorum []int) []int {
	out := append([]int(nil), quorum...)
	sort.Ints(out)
	return out
}
