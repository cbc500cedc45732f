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

// Package rand provides the randomness sources used throughout go-wrss:
// share masking, prime and modulus sampling, ElGamal key and ephemeral
// exponents, and extractor seeds all draw from a Resolver.
//
// A Resolver is an io.Reader, so every sampling function in the module
// accepts one directly and production code never reaches for a global
// random source.
//
// # Sources
//
//   - Auto: best available source (PKCS#11 > TPM2 > software)
//   - Software: crypto/rand
//   - TPM2: TPM 2.0 GetRandom (build tag tpm2)
//   - PKCS11: HSM C_GenerateRandom (build tag pkcs11)
//
// Tests that need reproducible protocol transcripts use NewSeededResolver,
// which is deliberately not selectable through Config.
//
// # Thread Safety
//
// All Resolver implementations are safe for concurrent use.
package rand

import (
	"crypto/rand"
	"fmt"
)

// Mode specifies which RNG source to use.
type Mode string

const (
	// ModeAuto automatically selects the best available RNG.
	ModeAuto Mode = "auto"

	// ModeSoftware uses crypto/rand
	ModeSoftware Mode = "software"

	// ModeTPM2 uses Trusted Platform Module 2.0 hardware RNG
	ModeTPM2 Mode = "tpm2"

	// ModePKCS11 uses PKCS#11 hardware security module RNG
	ModePKCS11 Mode = "pkcs11"
)

// ParseMode converts a configuration string to a Mode.
// The empty string selects ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeSoftware, ModeTPM2, ModePKCS11:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown RNG mode: %s", s)
	}
}

// Config contains RNG configuration.
type Config struct {
	// Mode specifies the primary RNG source to use.
	// Defaults to ModeAuto if not specified.
	Mode Mode

	// FallbackMode specifies the RNG source to use if primary mode fails.
	// If not specified, failures are returned as errors.
	FallbackMode Mode

	// TPM2Config contains TPM2-specific configuration (if Mode=ModeTPM2).
	TPM2Config *TPM2Config

	// PKCS11Config contains PKCS#11-specific configuration (if Mode=ModePKCS11).
	PKCS11Config *PKCS11Config
}

// TPM2Config contains configuration for TPM2 RNG.
type TPM2Config struct {
	// Device path to the TPM device (default: "/dev/tpm0")
	Device string

	// MaxRequestSize limits the bytes requested per GetRandom call.
	// Default: 32
	MaxRequestSize int

	// UseSimulator connects to a TCP simulator instead of Device.
	UseSimulator bool

	// SimulatorHost defaults to "localhost"
	SimulatorHost string

	// SimulatorPort defaults to 2321 (SWTPM command port)
	SimulatorPort int
}

// PKCS11Config contains configuration for PKCS#11 RNG.
type PKCS11Config struct {
	// Module path to the PKCS#11 library (e.g., /usr/lib/libsofthsm2.so)
	Module string

	// SlotID specifies the PKCS#11 slot containing the RNG
	SlotID uint

	// PINRequired indicates if the slot requires PIN authentication
	PINRequired bool

	// PIN is the authentication PIN (if PINRequired is true)
	PIN string
}

// Source represents a random number generator.
type Source interface {
	// Rand returns n random bytes.
	Rand(n int) ([]byte, error)

	// Available returns true if this RNG source is available and ready.
	Available() bool

	// Close closes the RNG and releases any resources.
	Close() error
}

// Resolver provides the main interface for generating random numbers.
// Applications should create a Resolver at startup and reuse it.
//
// Resolver implements io.Reader and is what every sampling function in
// numtheory, secretsharing and elgamal consumes.
type Resolver interface {
	// Rand returns n random bytes from the configured RNG source.
	// If the primary source fails and FallbackMode is configured,
	// tries the fallback source.
	Rand(n int) ([]byte, error)

	// Read implements io.Reader.
	Read(p []byte) (n int, err error)

	// Source returns the underlying RNG Source being used.
	Source() Source

	// Available returns true if at least one RNG source is available.
	Available() bool

	// Close closes the resolver and releases any resources.
	Close() error
}

// NewResolver creates a new RNG resolver. config may be nil, a Mode or a
// *Config; nil and unrecognized values select auto mode.
func NewResolver(config interface{}) (Resolver, error) {
	cfg := normalizeConfig(config)
	return newResolver(cfg)
}

// normalizeConfig converts various config types to *Config.
func normalizeConfig(config interface{}) *Config {
	if config == nil {
		return &Config{Mode: ModeAuto}
	}

	switch v := config.(type) {
	case Mode:
		return &Config{Mode: v}
	case *Config:
		if v == nil {
			return &Config{Mode: ModeAuto}
		}
		cfg := *v
		if cfg.Mode == "" {
			cfg.Mode = ModeAuto
		}
		return &cfg
	default:
		return &Config{Mode: ModeAuto}
	}
}

func newResolver(cfg *Config) (Resolver, error) {
	switch cfg.Mode {
	case ModeAuto, "":
		return newAutoResolver(cfg)
	case ModeSoftware:
		return newSoftwareResolver()
	case ModeTPM2:
		return newTPM2Resolver(cfg.TPM2Config)
	case ModePKCS11:
		return newPKCS11Resolver(cfg.PKCS11Config)
	default:
		return nil, fmt.Errorf("unknown RNG mode: %s", cfg.Mode)
	}
}

// SoftwareResolver uses crypto/rand from the Go standard library.
type SoftwareResolver struct{}

var _ Resolver = (*SoftwareResolver)(nil)

func newSoftwareResolver() (Resolver, error) {
	return &SoftwareResolver{}, nil
}

func (s *SoftwareResolver) Rand(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	return buf, err
}

func (s *SoftwareResolver) Read(p []byte) (n int, err error) {
	return rand.Read(p)
}

func (s *SoftwareResolver) Source() Source {
	return &softwareSource{}
}

func (s *SoftwareResolver) Available() bool {
	return true
}

func (s *SoftwareResolver) Close() error {
	return nil
}

type softwareSource struct{}

func (s *softwareSource) Rand(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	return buf, err
}

func (s *softwareSource) Available() bool {
	return true
}

func (s *softwareSource) Close() error {
	return nil
}

// readInto fills p from a Rand-style function.
func readInto(p []byte, fn func(int) ([]byte, error)) (int, error) {
	data, err := fn(len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, data), nil
}
