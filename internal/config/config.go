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

// Package config loads go-wrss session configuration from YAML files and
// WRSS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	rng "github.com/jeremyhahn/go-wrss/pkg/crypto/rand"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-wrss/pkg/logging"
)

// EnvPrefix prefixes every environment override, e.g. WRSS_SCHEME_LAMBDA.
const EnvPrefix = "WRSS"

// Config represents the complete session configuration
type Config struct {
	Scheme     SchemeConfig     `yaml:"scheme" mapstructure:"scheme"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	Random     RandomConfig     `yaml:"random" mapstructure:"random"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

// SchemeConfig contains the weighted sharing parameters
type SchemeConfig struct {
	Lambda                  int   `yaml:"lambda" mapstructure:"lambda"`
	Shareholders            int   `yaml:"shareholders" mapstructure:"shareholders"`
	ReconstructionThreshold int   `yaml:"reconstruction_threshold" mapstructure:"reconstruction_threshold"`
	PrivacyThreshold        int   `yaml:"privacy_threshold" mapstructure:"privacy_threshold"`
	Weights                 []int `yaml:"weights" mapstructure:"weights"`
	// SafePrimeField samples the standalone dealer's field order as a
	// safe-prime subgroup order. Sessions always use the ElGamal group order.
	SafePrimeField bool `yaml:"safe_prime_field" mapstructure:"safe_prime_field"`
}

// GenerationConfig bounds the prime sampling loops
type GenerationConfig struct {
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RandomConfig selects the randomness source
type RandomConfig struct {
	Mode          string `yaml:"mode" mapstructure:"mode"`                   // auto, software, tpm2, pkcs11
	FallbackMode  string `yaml:"fallback_mode" mapstructure:"fallback_mode"` // used when the primary source fails
	TPMDevice     string `yaml:"tpm_device" mapstructure:"tpm_device"`
	PKCS11Library string `yaml:"pkcs11_library" mapstructure:"pkcs11_library"`
	PKCS11Slot    uint   `yaml:"pkcs11_slot" mapstructure:"pkcs11_slot"`
	PKCS11PIN     string `yaml:"pkcs11_pin,omitempty" mapstructure:"pkcs11_pin"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MetricsConfig controls Prometheus instrumentation
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Textfile, when set, receives the metrics in Prometheus text format
	// at the end of a CLI run.
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// Default returns a runnable configuration: λ=256 over five shareholders
// weighted [3, 7, 9, 10, 12] with T=25 and t=15.
func Default() *Config {
	return &Config{
		Scheme: SchemeConfig{
			Lambda:                  256,
			Shareholders:            5,
			ReconstructionThreshold: 25,
			PrivacyThreshold:        15,
			Weights:                 []int{3, 7, 9, 10, 12},
		},
		Generation: GenerationConfig{
			MaxAttempts: secretsharing.DefaultMaxAttempts,
			Timeout:     5 * time.Minute,
		},
		Random: RandomConfig{
			Mode: string(rng.ModeAuto),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// setDefaults registers every key with viper so that environment
// overrides apply even when the file omits a section.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("scheme.lambda", d.Scheme.Lambda)
	v.SetDefault("scheme.shareholders", d.Scheme.Shareholders)
	v.SetDefault("scheme.reconstruction_threshold", d.Scheme.ReconstructionThreshold)
	v.SetDefault("scheme.privacy_threshold", d.Scheme.PrivacyThreshold)
	v.SetDefault("scheme.weights", d.Scheme.Weights)
	v.SetDefault("scheme.safe_prime_field", d.Scheme.SafePrimeField)
	v.SetDefault("generation.max_attempts", d.Generation.MaxAttempts)
	v.SetDefault("generation.timeout", d.Generation.Timeout)
	v.SetDefault("random.mode", d.Random.Mode)
	v.SetDefault("random.fallback_mode", "")
	v.SetDefault("random.tpm_device", "")
	v.SetDefault("random.pkcs11_library", "")
	v.SetDefault("random.pkcs11_slot", 0)
	v.SetDefault("random.pkcs11_pin", "")
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", "")
}

// Load reads configuration from a YAML file and applies WRSS_ environment
// variable overrides. An empty path loads the defaults with overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		// #nosec G304 - Config file path is provided by admin/user
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	params := c.Params()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("scheme: %w", err)
	}

	if c.Generation.MaxAttempts < 0 {
		return fmt.Errorf("generation max_attempts must be non-negative, got %d", c.Generation.MaxAttempts)
	}
	if c.Generation.Timeout < 0 {
		return fmt.Errorf("generation timeout must be non-negative, got %s", c.Generation.Timeout)
	}

	if _, err := rng.ParseMode(c.Random.Mode); err != nil {
		return fmt.Errorf("random mode: %w", err)
	}
	if _, err := rng.ParseMode(c.Random.FallbackMode); err != nil {
		return fmt.Errorf("random fallback_mode: %w", err)
	}
	if c.Random.Mode == string(rng.ModePKCS11) && c.Random.PKCS11Library == "" {
		return errors.New("random pkcs11_library is required when mode is pkcs11")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	validFormats := map[string]bool{
		"json": true, "text": true, "console": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json, text, or console)", c.Logging.Format)
	}

	return nil
}

// Params returns the scheme parameters.
func (c *Config) Params() secretsharing.Params {
	return secretsharing.Params{
		Lambda:                  c.Scheme.Lambda,
		Shareholders:            c.Scheme.Shareholders,
		ReconstructionThreshold: c.Scheme.ReconstructionThreshold,
		PrivacyThreshold:        c.Scheme.PrivacyThreshold,
		Weights:                 append([]int(nil), c.Scheme.Weights...),
	}
}

// ResolverConfig returns the randomness source configuration.
func (c *Config) ResolverConfig() *rng.Config {
	mode, _ := rng.ParseMode(c.Random.Mode)
	fallback := rng.Mode(c.Random.FallbackMode)

	cfg := &rng.Config{Mode: mode, FallbackMode: fallback}
	if c.Random.TPMDevice != "" || mode == rng.ModeTPM2 {
		cfg.TPM2Config = &rng.TPM2Config{Device: c.Random.TPMDevice}
	}
	if c.Random.PKCS11Library != "" {
		cfg.PKCS11Config = &rng.PKCS11Config{
			Module:      c.Random.PKCS11Library,
			SlotID:      c.Random.PKCS11Slot,
			PINRequired: c.Random.PKCS11PIN != "",
			PIN:         c.Random.PKCS11PIN,
		}
	}
	return cfg
}

// Logger builds the configured logger.
func (c *Config) Logger() (*logging.Logger, error) {
	return logging.New(logging.Options{Level: c.Logging.Level, Format: c.Logging.Format})
}
