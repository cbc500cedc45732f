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
	"errors"
	"sync"
)

// autoResolver draws from the strongest source that opened successfully.
// When that source fails a read and a fallback mode is configured, the
// read is retried once against the fallback.
type autoResolver struct {
	resolver Resolver
	fallback Resolver
	mu       sync.RWMutex
}

var _ Resolver = (*autoResolver)(nil)

// hardwareCandidates lists the hardware sources enabled by cfg, strongest
// first. A PKCS#11 token is only tried when a module is configured.
func hardwareCandidates(cfg *Config) []func() (Resolver, error) {
	var out []func() (Resolver, error)
	if pkcs11Available() && cfg.PKCS11Config != nil {
		out = append(out, func() (Resolver, error) { return newPKCS11Resolver(cfg.PKCS11Config) })
	}
	if tpm2Available() {
		out = append(out, func() (Resolver, error) { return newTPM2Resolver(cfg.TPM2Config) })
	}
	return out
}

// openFirst returns the first candidate that opens and reports itself
// available, closing any that open but cannot serve reads.
func openFirst(candidates []func() (Resolver, error)) Resolver {
	for _, open := range candidates {
		r, err := open()
		if err != nil {
			continue
		}
		if r.Available() {
			return r
		}
		_ = r.Close()
	}
	return nil
}

func newAutoResolver(cfg *Config) (Resolver, error) {
	resolver := openFirst(hardwareCandidates(cfg))
	if resolver == nil {
		var err error
		if resolver, err = newSoftwareResolver(); err != nil {
			return nil, err
		}
	}

	// An auto fallback would recurse into the same selection.
	var fallback Resolver
	if cfg.FallbackMode != "" && cfg.FallbackMode != ModeAuto {
		fallback, _ = newResolver(&Config{Mode: cfg.FallbackMode})
	}

	return &autoResolver{
		resolver: resolver,
		fallback: fallback,
	}, nil
}

func (a *autoResolver) sources() (Resolver, Resolver) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolver, a.fallback
}

func (a *autoResolver) Rand(n int) ([]byte, error) {
	primary, fallback := a.sources()
	out, err := primary.Rand(n)
	if err == nil || fallback == nil {
		return out, err
	}
	return fallback.Rand(n)
}

func (a *autoResolver) Read(p []byte) (int, error) {
	return readInto(p, a.Rand)
}

// Source reports the selected primary, never the fallback.
func (a *autoResolver) Source() Source {
	primary, _ := a.sources()
	return primary.Source()
}

func (a *autoResolver) Available() bool {
	primary, fallback := a.sources()
	if primary.Available() {
		return true
	}
	return fallback != nil && fallback.Available()
}

func (a *autoResolver) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for _, r := range []Resolver{a.resolver, a.fallback} {
		if r == nil {
			continue
		}
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
