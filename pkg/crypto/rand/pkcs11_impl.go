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

//go:build pkcs11

package rand

import (
	"fmt"
	"sync"

	"github.com/miekg/pkcs11"
)

// pkcs11Resolver draws entropy from an HSM via C_GenerateRandom.
type pkcs11Resolver struct {
	ctx     *pkcs11.Ctx
	session pkcs11.SessionHandle
	config  PKCS11Config
	mu      sync.RWMutex
}

var _ Resolver = (*pkcs11Resolver)(nil)

func newPKCS11Resolver(config *PKCS11Config) (Resolver, error) {
	if config == nil || config.Module == "" {
		return nil, fmt.Errorf("PKCS#11 module path is required")
	}

	ctx := pkcs11.New(config.Module)
	if ctx == nil {
		return nil, fmt.Errorf("failed to load PKCS#11 module: %s", config.Module)
	}
	if err := ctx.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PKCS#11: %w", err)
	}

	// Some tokens only expose slots after GetSlotList.
	if _, err := ctx.GetSlotList(true); err != nil {
		ctx.Finalize()
		ctx.Destroy()
		return nil, fmt.Errorf("failed to get PKCS#11 slot list: %w", err)
	}

	session, err := ctx.OpenSession(config.SlotID, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		ctx.Finalize()
		ctx.Destroy()
		return nil, fmt.Errorf("failed to open PKCS#11 session: %w", err)
	}

	if config.PINRequired && config.PIN != "" {
		if err := ctx.Login(session, pkcs11.CKU_USER, config.PIN); err != nil {
			ctx.CloseSession(session)
			ctx.Finalize()
			ctx.Destroy()
			return nil, fmt.Errorf("failed to authenticate with PKCS#11: %w", err)
		}
	}

	return &pkcs11Resolver{
		ctx:     ctx,
		session: session,
		config:  *config,
	}, nil
}

func pkcs11Available() bool {
	return true
}

func (p *pkcs11Resolver) Rand(n int) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.ctx == nil {
		return nil, fmt.Errorf("PKCS#11 resolver closed")
	}
	result, err := p.ctx.GenerateRandom(p.session, n)
	if err != nil {
		return nil, fmt.Errorf("PKCS#11 random generation failed: %w", err)
	}
	return result, nil
}

func (p *pkcs11Resolver) Read(b []byte) (int, error) {
	return readInto(b, p.Rand)
}

func (p *pkcs11Resolver) Source() Source {
	return p
}

func (p *pkcs11Resolver) Available() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctx != nil
}

func (p *pkcs11Resolver) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		if p.config.PINRequired {
			_ = p.ctx.Logout(p.session)
		}
		_ = p.ctx.CloseSession(p.session)
		_ = p.ctx.Finalize()
		p.ctx.Destroy()
		p.ctx = nil
	}
	return nil
}
