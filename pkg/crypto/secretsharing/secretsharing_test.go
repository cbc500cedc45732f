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
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-wrss/pkg/crypto/numtheory"
	rng "github.com/jeremyhahn/go-wrss/pkg/crypto/rand"
	"github.com/jeremyhahn/go-wrss/pkg/logging"
)

func referenceParams() Params {
	return Params{
		Lambda:                  256,
		Shareholders:            5,
		ReconstructionThreshold: 25,
		PrivacyThreshold:        15,
		Weights:                 []int{3, 7, 9, 10, 12},
	}
}

func seeded(t testing.TB, seed string) *rng.SeededResolver {
	t.Helper()
	r, err := rng.NewSeededResolver([]byte(seed))
	require.NoError(t, err)
	return r
}

func newTestDealer(t testing.TB, params Params, seed string) *Dealer {
	t.Helper()
	d, err := NewDealer(context.Background(), &Config{Params: params, Random: seeded(t, seed)})
	require.NoError(t, err)
	return d
}

func sharesAt(shares []*Share, quorum []int) []*Share {
	out := make([]*Share, len(quorum))
	for i, idx := range quorum {
		out[i] = shares[idx]
	}
	return out
}

// TestParamsValidate tests parameter validation.
func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr error
	}{
		{name: "valid", mutate: func(*Params) {}},
		{name: "privacy equals reconstruction", mutate: func(p *Params) { p.PrivacyThreshold = 25 }, wantErr: ErrInvalidThreshold},
		{name: "privacy above reconstruction", mutate: func(p *Params) { p.PrivacyThreshold = 30 }, wantErr: ErrInvalidThreshold},
		{name: "negative privacy", mutate: func(p *Params) { p.PrivacyThreshold = -1 }, wantErr: ErrInvalidThreshold},
		{name: "more weights than shareholders", mutate: func(p *Params) { p.Shareholders = 4 }, wantErr: ErrInvalidThreshold},
		{name: "total weight below threshold", mutate: func(p *Params) { p.ReconstructionThreshold = 42 }, wantErr: ErrInvalidThreshold},
		{name: "zero weight", mutate: func(p *Params) { p.Weights = []int{3, 0, 9, 10, 12} }, wantErr: ErrInvalidInput},
		{name: "no weights", mutate: func(p *Params) { p.Weights = nil }, wantErr: ErrInvalidInput},
		{name: "no shareholders", mutate: func(p *Params) { p.Shareholders = 0 }, wantErr: ErrInvalidInput},
		{name: "lambda too small", mutate: func(p *Params) { p.Lambda = 1 }, wantErr: ErrInvalidInput},
		{name: "fewer weights than shareholders", mutate: func(p *Params) { p.Shareholders = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := referenceParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScalingConstant(t *testing.T) {
	tests := []struct {
		lambda, T, t, want int
	}{
		{256, 25, 15, 52},
		{256, 25, 10, 35},
		{128, 30, 20, 26},
		{64, 3, 2, 129},
	}
	for _, tt := range tests {
		p := Params{Lambda: tt.lambda, ReconstructionThreshold: tt.T, PrivacyThreshold: tt.t}
		assert.Equal(t, tt.want, p.ScalingConstant(), "lambda=%d T=%d t=%d", tt.lambda, tt.T, tt.t)
	}
}

func TestQuorumWeight(t *testing.T) {
	p := referenceParams()

	w, err := p.QuorumWeight([]int{0, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 25, w)
	assert.True(t, p.Authorized([]int{0, 3, 4}))
	assert.True(t, p.Authorized([]int{1, 2, 3}))
	assert.False(t, p.Authorized([]int{2}))
	assert.False(t, p.Authorized([]int{0, 1, 2}))

	_, err = p.QuorumWeight([]int{0, 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.QuorumWeight([]int{5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.QuorumWeight(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, p.Authorized([]int{-1}))
}

func TestNewCalibrator(t *testing.T) {
	c, err := NewCalibrator(referenceParams())
	require.NoError(t, err)
	assert.Equal(t, 52, c.Scaling())
	assert.Equal(t, []int{156, 364, 468, 520, 624}, c.ModulusBits())

	p := referenceParams()
	p.PrivacyThreshold = p.ReconstructionThreshold
	_, err = NewCalibrator(p)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

// bruteForceProducts enumerates every subset of moduli.
func bruteForceProducts(weights []int, moduli []*big.Int, T, tt int) (pMin, pMax *big.Int) {
	pMax = big.NewInt(1)
	for mask := 0; mask < 1<<len(weights); mask++ {
		w := 0
		prod := big.NewInt(1)
		for i := range weights {
			if mask&(1<<i) != 0 {
				w += weights[i]
				prod.Mul(prod, moduli[i])
			}
		}
		if w >= T && (pMin == nil || prod.Cmp(pMin) < 0) {
			pMin = prod
		}
		if w <= tt && prod.Cmp(pMax) > 0 {
			pMax = prod
		}
	}
	return pMin, pMax
}

// TestSubsetProducts checks the exact P_min and P_max against enumeration,
// including instances where taking the smallest moduli first is wrong.
func TestSubsetProducts(t *testing.T) {
	ints := func(vs ...int64) []*big.Int {
		out := make([]*big.Int, len(vs))
		for i, v := range vs {
			out[i] = big.NewInt(v)
		}
		return out
	}
	tests := []struct {
		name    string
		weights []int
		moduli  []*big.Int
		T, t    int
	}{
		{"reference weights", []int{3, 7, 9, 10, 12}, ints(7, 127, 509, 1021, 4093), 25, 15},
		{"light members are expensive", []int{3, 7, 9, 10, 12}, ints(1009, 997, 991, 13, 17), 25, 15},
		{"equal weights", []int{10, 10, 10, 10, 10}, ints(101, 103, 107, 109, 113), 30, 20},
		{"single heavy member", []int{1, 1, 1, 20}, ints(3, 5, 7, 11), 20, 2},
		{"zero privacy threshold", []int{2, 3, 4}, ints(5, 7, 11), 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantMin, wantMax := bruteForceProducts(tt.weights, tt.moduli, tt.T, tt.t)

			gotMin, err := minAuthorizedProduct(tt.weights, tt.moduli, tt.T)
			require.NoError(t, err)
			assert.Zero(t, wantMin.Cmp(gotMin), "P_min: want %v got %v", wantMin, gotMin)

			gotMax := maxUnauthorizedProduct(tt.weights, tt.moduli, tt.t)
			assert.Zero(t, wantMax.Cmp(gotMax), "P_max: want %v got %v", wantMax, gotMax)
		})
	}
}

func TestDealer_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		quorums [][]int
	}{
		{
			name:    "reference weights",
			params:  referenceParams(),
			quorums: [][]int{{0, 3, 4}, {1, 2, 3}, {1, 2, 4}, {4, 3, 0}, {0, 1, 2, 3, 4}},
		},
		{
			name: "light first member",
			params: Params{
				Lambda: 256, Shareholders: 5, ReconstructionThreshold: 25, PrivacyThreshold: 10,
				Weights: []int{2, 7, 9, 10, 12},
			},
			quorums: [][]int{{1, 2, 3}, {0, 1, 2, 3}, {2, 3, 4}},
		},
		{
			name: "equal weights",
			params: Params{
				Lambda: 128, Shareholders: 5, ReconstructionThreshold: 30, PrivacyThreshold: 20,
				Weights: []int{10, 10, 10, 10, 10},
			},
			quorums: [][]int{{0, 1, 2}, {2, 3, 4}, {0, 2, 4, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDealer(t, tt.params, "round-trip/"+tt.name)
			p0 := d.FieldOrder()
			secret, err := numtheory.RandomInt(seeded(t, "secret"), p0)
			require.NoError(t, err)

			dealing, err := d.Distribute(secret)
			require.NoError(t, err)
			require.Len(t, dealing.Shares, len(tt.params.Weights))

			assert.Zero(t, new(big.Int).Mod(dealing.Lifted, p0).Cmp(secret))
			for i, s := range dealing.Shares {
				assert.Zero(t, new(big.Int).Mod(dealing.Lifted, dealing.Moduli[i]).Cmp(s.Value))
				assert.Equal(t, tt.params.Weights[i], s.Weight)
				assert.NoError(t, s.Verify())
			}

			for _, q := range tt.quorums {
				got, err := CombineShares(p0, sharesAt(dealing.Shares, q))
				require.NoError(t, err)
				assert.Zero(t, secret.Cmp(got), "quorum %v", q)
			}
		})
	}
}

func TestDealer_ModuliConstraints(t *testing.T) {
	d := newTestDealer(t, referenceParams(), "moduli")
	p0 := d.FieldOrder()
	moduli := d.Moduli()
	scaling := d.Calibration().Scaling

	assert.Equal(t, 256, p0.BitLen())
	assert.True(t, numtheory.IsPrime(p0))

	for i, m := range moduli {
		w := referenceParams().Weights[i]
		assert.Equal(t, scaling*w, m.BitLen(), "modulus %d", i)
		assert.True(t, numtheory.IsPrime(m))
		assert.True(t, numtheory.Coprime(m, p0))
		for j := i + 1; j < len(moduli); j++ {
			assert.True(t, numtheory.Coprime(m, moduli[j]))
		}
	}

	cal := d.Calibration()
	assert.True(t, cal.Lower.Cmp(cal.L) <= 0)
	// (L+1)·p_0 < P_min
	bound := new(big.Int).Add(cal.L, big.NewInt(1))
	bound.Mul(bound, p0)
	assert.Negative(t, bound.Cmp(cal.PMin))
}

// TestDealer_PrivacyCoalitionsMiss deals many random secrets and checks
// that no coalition of weight at most t reconstructs any of them.
func TestDealer_PrivacyCoalitionsMiss(t *testing.T) {
	const rounds = 25

	params := referenceParams()
	d := newTestDealer(t, params, "privacy")
	r := seeded(t, "privacy-secrets")

	var coalitions [][]int
	for mask := 1; mask < 1<<len(params.Weights); mask++ {
		var q []int
		weight := 0
		for i, w := range params.Weights {
			if mask&(1<<i) != 0 {
				q = append(q, i)
				weight += w
			}
		}
		if weight <= params.PrivacyThreshold {
			coalitions = append(coalitions, q)
		}
	}
	require.NotEmpty(t, coalitions)

	trials, mismatches := 0, 0
	for round := 0; round < rounds; round++ {
		secret, err := numtheory.RandomInt(r, d.FieldOrder())
		require.NoError(t, err)
		dealing, err := d.Distribute(secret)
		require.NoError(t, err)

		for _, q := range coalitions {
			got, err := CombineShares(d.FieldOrder(), sharesAt(dealing.Shares, q))
			require.NoError(t, err)
			trials++
			if secret.Cmp(got) != 0 {
				mismatches++
				continue
			}
			t.Errorf("round %d: coalition %v recovered the secret", round, q)
		}
	}
	t.Logf("%d of %d below-threshold reconstructions missed the secret", mismatches, trials)
	assert.Equal(t, trials, mismatches)
}

func TestSortedQuorum(t *testing.T) {
	quorum := []int{4, 0, 3}
	assert.Equal(t, []int{0, 3, 4}, SortedQuorum(quorum))
	assert.Equal(t, []int{4, 0, 3}, quorum)
	assert.Empty(t, SortedQuorum(nil))
}

func TestDealer_ReuseAcrossSecrets(t *testing.T) {
	d := newTestDealer(t, referenceParams(), "reuse")
	moduli := d.Moduli()

	first, err := d.Distribute(big.NewInt(7))
	require.NoError(t, err)
	second, err := d.Distribute(big.NewInt(7))
	require.NoError(t, err)

	assert.NotZero(t, first.Lifted.Cmp(second.Lifted))
	for i := range moduli {
		assert.Zero(t, moduli[i].Cmp(first.Moduli[i]))
		assert.Zero(t, moduli[i].Cmp(second.Moduli[i]))
	}
	for _, dealing := range []*Dealing{first, second} {
		got, err := CombineShares(d.FieldOrder(), sharesAt(dealing.Shares, []int{0, 3, 4}))
		require.NoError(t, err)
		assert.EqualValues(t, 7, got.Int64())
	}
}

func TestDealer_Deterministic(t *testing.T) {
	a := newTestDealer(t, referenceParams(), "same-seed")
	b := newTestDealer(t, referenceParams(), "same-seed")

	assert.Zero(t, a.FieldOrder().Cmp(b.FieldOrder()))
	for i, m := range a.Moduli() {
		assert.Zero(t, m.Cmp(b.Moduli()[i]))
	}
}

func TestNewDealer_InvalidThreshold(t *testing.T) {
	p := referenceParams()
	p.PrivacyThreshold = 25
	_, err := NewDealer(context.Background(), &Config{Params: p})
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	p = referenceParams()
	p.Shareholders = 3
	_, err = NewDealer(context.Background(), &Config{Params: p})
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewDealer(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalibrate_Infeasible(t *testing.T) {
	d := newTestDealer(t, referenceParams(), "infeasible")
	c, err := NewCalibrator(referenceParams())
	require.NoError(t, err)

	mersenne := new(big.Int).Lsh(big.NewInt(1), 521)
	mersenne.Sub(mersenne, big.NewInt(1))

	_, err = c.Calibrate(mersenne, d.Moduli())
	require.ErrorIs(t, err, ErrInfeasibleParameters)

	var infeasible *InfeasibleParametersError
	require.True(t, errors.As(err, &infeasible))
	assert.Zero(t, mersenne.Cmp(infeasible.FieldOrder))
	assert.Positive(t, infeasible.Lower.Cmp(infeasible.Upper))
	assert.Zero(t, d.Calibration().PMin.Cmp(infeasible.PMin))
	assert.Zero(t, d.Calibration().PMax.Cmp(infeasible.PMax))
	assert.Contains(t, err.Error(), "p_0 521 bits")
}

func TestNewDealer_InfeasibleFieldOrder(t *testing.T) {
	mersenne := new(big.Int).Lsh(big.NewInt(1), 521)
	mersenne.Sub(mersenne, big.NewInt(1))

	_, err := NewDealer(context.Background(), &Config{
		Params:     referenceParams(),
		FieldOrder: mersenne,
		Random:     seeded(t, "infeasible-dealer"),
	})
	assert.ErrorIs(t, err, ErrInfeasibleParameters)
}

func TestCalibrate_InvalidInput(t *testing.T) {
	c, err := NewCalibrator(referenceParams())
	require.NoError(t, err)

	_, err = c.Calibrate(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = c.Calibrate(big.NewInt(7), []*big.Int{big.NewInt(11)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func equalWeightParams() Params {
	return Params{
		Lambda: 64, Shareholders: 5, ReconstructionThreshold: 30, PrivacyThreshold: 20,
		Weights: []int{10, 10, 10, 10, 10},
	}
}

func TestNewDealer_SuppliedModuli(t *testing.T) {
	base := newTestDealer(t, equalWeightParams(), "supplied")
	ctx := context.Background()

	t.Run("accepted", func(t *testing.T) {
		d, err := NewDealer(ctx, &Config{
			Params:     equalWeightParams(),
			FieldOrder: base.FieldOrder(),
			Moduli:     base.Moduli(),
			Random:     seeded(t, "supplied-accepted"),
		})
		require.NoError(t, err)
		for i, m := range d.Moduli() {
			assert.Zero(t, m.Cmp(base.Moduli()[i]))
		}

		dealing, err := d.Distribute(big.NewInt(99))
		require.NoError(t, err)
		got, err := CombineShares(d.FieldOrder(), sharesAt(dealing.Shares, []int{1, 3, 4}))
		require.NoError(t, err)
		assert.EqualValues(t, 99, got.Int64())
	})

	t.Run("not coprime", func(t *testing.T) {
		moduli := base.Moduli()
		moduli[2] = new(big.Int).Set(moduli[0])
		_, err := NewDealer(ctx, &Config{Params: equalWeightParams(), FieldOrder: base.FieldOrder(), Moduli: moduli})
		assert.ErrorIs(t, err, ErrNotCoprime)
	})

	t.Run("wrong bit length", func(t *testing.T) {
		moduli := base.Moduli()
		moduli[1] = big.NewInt(65537)
		_, err := NewDealer(ctx, &Config{Params: equalWeightParams(), FieldOrder: base.FieldOrder(), Moduli: moduli})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("wrong count", func(t *testing.T) {
		_, err := NewDealer(ctx, &Config{Params: equalWeightParams(), FieldOrder: base.FieldOrder(), Moduli: base.Moduli()[:4]})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("composite field order", func(t *testing.T) {
		_, err := NewDealer(ctx, &Config{Params: equalWeightParams(), FieldOrder: big.NewInt(100), Moduli: base.Moduli()})
		assert.ErrorIs(t, err, ErrNotPrime)
	})
}

func TestNewDealer_SafePrimeField(t *testing.T) {
	d, err := NewDealer(context.Background(), &Config{
		Params:         equalWeightParams(),
		SafePrimeField: true,
		Random:         seeded(t, "safe-field"),
	})
	require.NoError(t, err)

	q := d.FieldOrder()
	p := new(big.Int).Lsh(q, 1)
	p.Add(p, big.NewInt(1))
	assert.Equal(t, 64, q.BitLen())
	assert.True(t, numtheory.IsPrime(q))
	assert.True(t, numtheory.IsPrime(p))
}

func TestNewDealer_WarnsOnShortLambda(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	_, err = NewDealer(context.Background(), &Config{
		Params: equalWeightParams(),
		Random: seeded(t, "short-lambda"),
		Logger: logger,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "security parameter below recommended minimum")
	assert.Contains(t, buf.String(), "lambda=64")
}

func TestNewDealer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDealer(ctx, &Config{Params: referenceParams()})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDistribute_InvalidSecret(t *testing.T) {
	d := newTestDealer(t, equalWeightParams(), "invalid-secret")

	_, err := d.Distribute(d.FieldOrder())
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = d.Distribute(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = d.Distribute(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := d.Distribute(big.NewInt(0))
	require.NoError(t, err)
	assert.Len(t, got.Shares, 5)
}

func TestLagrangeCoefficient(t *testing.T) {
	moduli := []*big.Int{big.NewInt(3), big.NewInt(5), big.NewInt(7)}
	want := []int64{70, 21, 15}
	for i, w := range want {
		got, err := LagrangeCoefficient(moduli, i)
		require.NoError(t, err)
		assert.EqualValues(t, w, got.Int64())
		for j, m := range moduli {
			r := new(big.Int).Mod(got, m).Int64()
			if i == j {
				assert.EqualValues(t, 1, r)
			} else {
				assert.EqualValues(t, 0, r)
			}
		}
	}

	_, err := LagrangeCoefficient([]*big.Int{big.NewInt(4), big.NewInt(6)}, 0)
	assert.ErrorIs(t, err, ErrNotInvertible)
	_, err = LagrangeCoefficient(moduli, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReconstruct(t *testing.T) {
	moduli := []*big.Int{big.NewInt(3), big.NewInt(5), big.NewInt(7)}
	values := []*big.Int{big.NewInt(2), big.NewInt(3), big.NewInt(2)}

	lifted, err := Lift(moduli, values)
	require.NoError(t, err)
	assert.EqualValues(t, 23, lifted.Int64())

	got, err := Reconstruct(big.NewInt(11), moduli, values)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Int64())

	_, err = Reconstruct(big.NewInt(11), moduli, values[:2])
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Reconstruct(big.NewInt(11), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestShare_Verify(t *testing.T) {
	d := newTestDealer(t, equalWeightParams(), "verify")
	dealing, err := d.Distribute(big.NewInt(1234))
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		for _, s := range dealing.Shares {
			assert.NoError(t, s.Verify())
		}
	})

	t.Run("tampered value", func(t *testing.T) {
		s := *dealing.Shares[0]
		s.Value = new(big.Int).Add(s.Value, big.NewInt(1))
		s.Value.Mod(s.Value, s.Modulus)
		assert.ErrorIs(t, s.Verify(), ErrInvalidShare)

		shares := sharesAt(dealing.Shares, []int{1, 2})
		shares = append(shares, &s)
		_, err := CombineShares(d.FieldOrder(), shares)
		assert.ErrorIs(t, err, ErrInvalidShare)
	})

	t.Run("tampered weight", func(t *testing.T) {
		s := *dealing.Shares[1]
		s.Weight = 99
		assert.ErrorIs(t, s.Verify(), ErrInvalidShare)
	})

	t.Run("value out of range", func(t *testing.T) {
		s := NewShare(0, 1, big.NewInt(7), big.NewInt(7))
		assert.ErrorIs(t, s.Verify(), ErrInvalidShare)
	})

	t.Run("nil", func(t *testing.T) {
		var s *Share
		assert.ErrorIs(t, s.Verify(), ErrInvalidShare)
	})

	t.Run("string hides value", func(t *testing.T) {
		s := dealing.Shares[2]
		assert.NotContains(t, s.String(), s.Value.String())
		assert.Contains(t, s.String(), "Index: 2")
	})
}

func TestCombineShares_Duplicate(t *testing.T) {
	d := newTestDealer(t, equalWeightParams(), "duplicate")
	dealing, err := d.Distribute(big.NewInt(5))
	require.NoError(t, err)

	_, err = CombineShares(d.FieldOrder(), sharesAt(dealing.Shares, []int{0, 1, 1}))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = CombineShares(d.FieldOrder(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetup(t *testing.T) {
	dealer, dealing, err := Setup(context.Background(), &Config{
		Params: referenceParams(),
		Random: seeded(t, "setup"),
	}, big.NewInt(420420))
	require.NoError(t, err)

	assert.Equal(t, 52, dealing.Scaling)
	assert.Zero(t, dealer.FieldOrder().Cmp(dealing.FieldOrder))

	moduli, err := dealer.QuorumModuli([]int{0, 3, 4})
	require.NoError(t, err)
	values := []*big.Int{dealing.Shares[0].Value, dealing.Shares[3].Value, dealing.Shares[4].Value}
	got, err := Reconstruct(dealing.FieldOrder, moduli, values)
	require.NoError(t, err)
	assert.EqualValues(t, 420420, got.Int64())
}

func BenchmarkDistribute(b *testing.B) {
	d := newTestDealer(b, referenceParams(), "bench")
	secret := big.NewInt(420420)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Distribute(secret); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCombineShares(b *testing.B) {
	d := newTestDealer(b, referenceParams(), "bench")
	dealing, err := d.Distribute(big.NewInt(420420))
	require.NoError(b, err)
	shares := sharesAt(dealing.Shares, []int{0, 3, 4})
	p0 := d.FieldOrder()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CombineShares(p0, shares); err != nil {
			b.Fatal(err)
		}
	}
}
