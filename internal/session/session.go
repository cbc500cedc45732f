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

// Package session runs the threshold ElGamal protocol end to end: it
// generates a group and key, deals the private exponent across the
// weighted shareholders, and decrypts with any authorized quorum.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-wrss/internal/config"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/elgamal"
	rng "github.com/jeremyhahn/go-wrss/pkg/crypto/rand"
	"github.com/jeremyhahn/go-wrss/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-wrss/pkg/logging"
	"github.com/jeremyhahn/go-wrss/pkg/metrics"
	"github.com/jeremyhahn/go-wrss/pkg/threshold"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session: closed")

// Session holds the public key and the dealt shares of one key
// generation. The private exponent is dropped once it has been dealt.
type Session struct {
	id          string
	params      secretsharing.Params
	public      *elgamal.PublicKey
	moduli      []*big.Int
	shares      []*secretsharing.Share
	calibration secretsharing.Calibration
	scaling     int
	random      io.Reader
	logger      *logging.Logger

	mu     sync.RWMutex
	closed bool
}

type options struct {
	random         io.Reader
	logger         *logging.Logger
	maxAttempts    int
	safePrimeField bool
}

// Option configures New.
type Option func(*options)

// WithRandom sets the randomness source for key generation, dealing and
// encryption.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.random = r }
}

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxAttempts bounds prime sampling.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// New generates a safe-prime group with a λ-bit subgroup order, a key pair,
// and deals the private exponent over moduli calibrated for params.
func New(ctx context.Context, params secretsharing.Params, opts ...Option) (*Session, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.random == nil {
		o.random = &rng.SoftwareResolver{}
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	if o.maxAttempts <= 0 {
		o.maxAttempts = secretsharing.DefaultMaxAttempts
	}

	if err := params.Validate(); err != nil {
		metrics.RecordError(metrics.OpSetup, errorType(err))
		return nil, err
	}

	id := uuid.NewString()
	logger := o.logger.With("session", id)

	start := time.Now()
	key, err := elgamal.GenerateKey(ctx, o.random, params.Lambda, o.maxAttempts)
	if err != nil {
		observe(metrics.OpKeyGen, start, err)
		return nil, fmt.Errorf("key generation: %w", err)
	}
	observe(metrics.OpKeyGen, start, nil)
	logger.Debug("generated key", "group_bits", key.Group.Bits())

	start = time.Now()
	dealer, dealing, err := secretsharing.Setup(ctx, &secretsharing.Config{
		Params:      params,
		FieldOrder:  key.Group.Q,
		MaxAttempts: o.maxAttempts,
		Random:      o.random,
		Logger:      logger,
	}, key.X)
	observe(metrics.OpDeal, start, err)
	if err != nil {
		return nil, err
	}
	key.X = nil

	s := &Session{
		id:          id,
		params:      dealer.Params(),
		public:      key.Public(),
		moduli:      dealing.Moduli,
		shares:      dealing.Shares,
		calibration: dealer.Calibration(),
		scaling:     dealing.Scaling,
		random:      o.random,
		logger:      logger,
	}
	metrics.SessionOpened()
	logger.Info("session ready",
		"lambda", params.Lambda,
		"shareholders", len(params.Weights),
		"reconstruction_threshold", params.ReconstructionThreshold,
		"privacy_threshold", params.PrivacyThreshold,
		"scaling", s.scaling)
	return s, nil
}

// NewFromConfig builds the randomness source and logger from cfg and
// creates a session bounded by the configured generation timeout. opts are
// applied last; when they supply a reader the configured source is not
// opened. Close releases the randomness source.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", secretsharing.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	supplied := &options{}
	for _, opt := range opts {
		opt(supplied)
	}
	base := []Option{WithLogger(logger), WithMaxAttempts(cfg.Generation.MaxAttempts)}
	var resolver rng.Resolver
	if supplied.random == nil {
		resolver, err = rng.NewResolver(cfg.ResolverConfig())
		if err != nil {
			return nil, fmt.Errorf("random source: %w", err)
		}
		base = append(base, WithRandom(resolver))
	}

	if cfg.Generation.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Generation.Timeout)
		defer cancel()
	}

	s, err := New(ctx, cfg.Params(), append(base, opts...)...)
	if err != nil {
		if resolver != nil {
			_ = resolver.Close()
		}
		return nil, err
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Params returns the scheme parameters.
func (s *Session) Params() secretsharing.Params { return s.params }

// PublicKey returns the group and public key.
func (s *Session) PublicKey() *elgamal.PublicKey { return s.public }

// Scaling returns the scaling constant c.
func (s *Session) Scaling() int { return s.scaling }

// Calibration returns the masking bound calibration.
func (s *Session) Calibration() secretsharing.Calibration { return s.calibration }

// Moduli returns a copy of the shareholder moduli.
func (s *Session) Moduli() []*big.Int {
	out := make([]*big.Int, len(s.moduli))
	for i, m := range s.moduli {
		out[i] = new(big.Int).Set(m)
	}
	return out
}

// Shares returns the dealt shares.
func (s *Session) Shares() []*secretsharing.Share {
	return append([]*secretsharing.Share(nil), s.shares...)
}

// QuorumWeight returns the total weight of quorum.
func (s *Session) QuorumWeight(quorum []int) (int, error) {
	return s.params.QuorumWeight(quorum)
}

// Authorized reports whether quorum reaches the reconstruction threshold.
func (s *Session) Authorized(quorum []int) bool {
	return s.params.Authorized(quorum)
}

// Encrypt encrypts m under the session public key.
func (s *Session) Encrypt(m *big.Int) (*elgamal.Ciphertext, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	start := time.Now()
	ct, _, err := elgamal.Encrypt(s.random, s.public, m)
	observe(metrics.OpEncrypt, start, err)
	return ct, err
}

// Seal encrypts plaintext into an envelope under the session public key.
func (s *Session) Seal(plaintext, aad []byte) (*elgamal.Envelope, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	start := time.Now()
	env, err := elgamal.Seal(s.random, s.public, plaintext, aad)
	observe(metrics.OpSeal, start, err)
	return env, err
}

// Decrypt recovers the message of ct using the shares of quorum. An
// unauthorized quorum yields threshold.ErrReconstructionFailed.
func (s *Session) Decrypt(ctx context.Context, ct *elgamal.Ciphertext, quorum []int) (*big.Int, *threshold.Result, error) {
	if err := s.check(); err != nil {
		return nil, nil, err
	}
	if ct == nil {
		return nil, nil, fmt.Errorf("%w: ciphertext cannot be nil", elgamal.ErrInvalidCiphertext)
	}
	if err := ct.Validate(s.public.Group); err != nil {
		metrics.RecordError(metrics.OpDecrypt, errorType(err))
		return nil, nil, err
	}
	res, err := s.recoverKey(ctx, quorum, ct.C1, ct.Commitment)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	m, err := elgamal.Decrypt(ct, res.Key)
	observe(metrics.OpDecrypt, start, err)
	if err != nil {
		return nil, nil, err
	}
	return m, res, nil
}

// Open authenticates and decrypts env using the shares of quorum.
func (s *Session) Open(ctx context.Context, env *elgamal.Envelope, quorum []int, aad []byte) ([]byte, *threshold.Result, error) {
	if err := s.check(); err != nil {
		return nil, nil, err
	}
	if env == nil {
		return nil, nil, fmt.Errorf("%w: envelope cannot be nil", elgamal.ErrInvalidCiphertext)
	}
	if !s.public.Group.Contains(env.C1) {
		metrics.RecordError(metrics.OpOpen, errorType(elgamal.ErrInvalidCiphertext))
		return nil, nil, fmt.Errorf("%w: c1 outside the group", elgamal.ErrInvalidCiphertext)
	}
	res, err := s.recoverKey(ctx, quorum, env.C1, env.Commitment)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	plaintext, err := elgamal.Open(env, res.Key, aad)
	observe(metrics.OpOpen, start, err)
	if err != nil {
		return nil, nil, err
	}
	return plaintext, res, nil
}

func (s *Session) recoverKey(ctx context.Context, quorum []int, c1 *big.Int, commitment []byte) (*threshold.Result, error) {
	weight, err := s.params.QuorumWeight(quorum)
	if err != nil {
		metrics.RecordError(metrics.OpPartialDecrypt, errorType(err))
		return nil, fmt.Errorf("%w: %w", threshold.ErrInvalidQuorum, err)
	}
	metrics.RecordQuorumWeight(weight)

	members := make([]*secretsharing.Share, len(quorum))
	for i, idx := range quorum {
		members[i] = s.shares[idx]
	}

	start := time.Now()
	partials, err := threshold.PartialDecryptQuorum(ctx, s.public.Group, s.moduli, quorum, members, c1)
	observe(metrics.OpPartialDecrypt, start, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	res, err := threshold.CombineAndSearch(s.public.Group, s.moduli, quorum, partials, c1, commitment)
	observe(metrics.OpCombine, start, err)
	if err != nil {
		if errors.Is(err, threshold.ErrReconstructionFailed) {
			s.logger.Warn("reconstruction failed",
				"quorum", quorum,
				"weight", weight,
				"reconstruction_threshold", s.params.ReconstructionThreshold)
		}
		return nil, err
	}
	metrics.RecordSearchOffset(res.Offset)
	s.logger.Debug("recovered session key", "quorum", quorum, "weight", weight, "offset", res.Offset)
	return res, nil
}

// Close releases the session. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	metrics.SessionClosed()
	s.logger.Infof("session closed, releasing %d shares", len(s.shares))
	if c, ok := s.random.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func observe(op string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		metrics.RecordError(op, errorType(err))
	}
	metrics.RecordOperation(op, status, time.Since(start).Seconds())
}

func errorType(err error) string {
	switch {
	case errors.Is(err, threshold.ErrReconstructionFailed):
		return "reconstruction_failed"
	case errors.Is(err, threshold.ErrInvalidQuorum):
		return "invalid_quorum"
	case errors.Is(err, secretsharing.ErrInfeasibleParameters):
		return "infeasible_parameters"
	case errors.Is(err, secretsharing.ErrInvalidThreshold):
		return "invalid_threshold"
	case errors.Is(err, secretsharing.ErrGenerationFailed):
		return "generation_failed"
	case errors.Is(err, secretsharing.ErrInvalidShare):
		return "invalid_share"
	case errors.Is(err, elgamal.ErrMessageTooLarge):
		return "message_too_large"
	case errors.Is(err, elgamal.ErrInvalidCiphertext):
		return "invalid_ciphertext"
	case errors.Is(err, elgamal.ErrAuthenticationFailed):
		return "authentication_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
