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

//go:build tpm2

package rand

import (
	"fmt"
	"sync"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"
	"github.com/google/go-tpm/tpm2/transport/tcp"
	"github.com/google/go-tpm/tpmutil"
)

// tpm2Resolver draws entropy from a TPM 2.0 via GetRandom.
type tpm2Resolver struct {
	rwc    transport.TPMCloser
	config TPM2Config
	mu     sync.RWMutex
}

var _ Resolver = (*tpm2Resolver)(nil)

func newTPM2Resolver(config *TPM2Config) (Resolver, error) {
	cfg := TPM2Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.Device == "" {
		cfg.Device = "/dev/tpm0"
	}
	if cfg.MaxRequestSize <= 0 {
		cfg.MaxRequestSize = 32
	}
	if cfg.SimulatorHost == "" {
		cfg.SimulatorHost = "localhost"
	}
	if cfg.SimulatorPort <= 0 {
		cfg.SimulatorPort = 2321
	}

	var rwc transport.TPMCloser
	if cfg.UseSimulator {
		cmdAddr := fmt.Sprintf("%s:%d", cfg.SimulatorHost, cfg.SimulatorPort)
		platAddr := fmt.Sprintf("%s:%d", cfg.SimulatorHost, cfg.SimulatorPort+1)
		conn, err := tcp.Open(tcp.Config{
			CommandAddress:  cmdAddr,
			PlatformAddress: platAddr,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to TPM simulator at %s: %w", cmdAddr, err)
		}
		rwc = conn
	} else {
		dev, err := tpmutil.OpenTPM(cfg.Device)
		if err != nil {
			return nil, fmt.Errorf("failed to open TPM2 device %s: %w", cfg.Device, err)
		}
		rwc = transport.FromReadWriteCloser(dev)
	}

	return &tpm2Resolver{rwc: rwc, config: cfg}, nil
}

func tpm2Available() bool {
	return true
}

func (t *tpm2Resolver) Rand(n int) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.rwc == nil {
		return nil, fmt.Errorf("TPM2 resolver closed")
	}

	result := make([]byte, 0, n)
	for len(result) < n {
		chunk := min(n-len(result), t.config.MaxRequestSize)
		getRandom := tpm2.GetRandom{BytesRequested: uint16(chunk)}
		rsp, err := getRandom.Execute(t.rwc)
		if err != nil {
			return nil, fmt.Errorf("TPM2 GetRandom failed: %w", err)
		}
		if len(rsp.RandomBytes.Buffer) == 0 {
			return nil, fmt.Errorf("TPM2 GetRandom returned no data")
		}
		result = append(result, rsp.RandomBytes.Buffer...)
	}
	return result[:n], nil
}

func (t *tpm2Resolver) Read(p []byte) (int, error) {
	return readInto(p, t.Rand)
}

func (t *tpm2Resolver) Source() Source {
	return t
}

func (t *tpm2Resolver) Available() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rwc != nil
}

func (t *tpm2Resolver) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rwc != nil {
		err := t.rwc.Close()
		t.rwc = nil
		return err
	}
	return nil
}
