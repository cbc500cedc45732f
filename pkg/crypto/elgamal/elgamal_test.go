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

package elgamal

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rng "github.com/jeremyhahn/go-wrss/pkg/crypto/rand"
)

func seeded(t testing.TB, seed string) *rng.SeededResolver {
	t.Helper()
	r, err := rng.NewSeededResolver([]byte(seed))
	require.NoError(t, err)
	return r
}

func testKey(t testing.TB, bits int, seed string) *PrivateKey {
	t.Helper()
	key, err := GenerateKey(context.Background(), seeded(t, seed), bits, 100000)
	require.NoError(t, err)
	return key
}

func TestFindGenerator(t *testing.T) {
	tests := []struct {
		p, q, want int64
	}{
		{23, 11, 2},
		{7, 3, 2},
		{11, 5, 3},
		{47, 23, 2},
	}
	for _, tt := range tests {
		g, err := FindGenerator(big.NewInt(tt.p), big.NewInt(tt.q))
		require.NoError(t, err)
		assert.EqualValues(t, tt.want, g.Int64(), "p=%d", tt.p)
	}

	_, err := FindGenerator(big.NewInt(23), big.NewInt(7))
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestGroupValidate(t *testing.T) {
	tests := []struct {
		name    string
		group   *Group
		wantErr bool
	}{
		{"valid", &Group{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(2)}, false},
		{"valid square generator", &Group{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(4)}, false},
		{"p not 2q+1", &Group{P: big.NewInt(29), Q: big.NewInt(11), G: big.NewInt(2)}, true},
		{"composite q", &Group{P: big.NewInt(19), Q: big.NewInt(9), G: big.NewInt(4)}, true},
		{"identity generator", &Group{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(1)}, true},
		{"order two generator", &Group{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(22)}, true},
		{"non-residue generator", &Group{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(5)}, true},
		{"missing", &Group{P: big.NewInt(23)}, true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGroup)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSampleGroup(t *testing.T) {
	group, err := SampleGroup(context.Background(), seeded(t, "group"), 64, 100000)
	require.NoError(t, err)
	require.NoError(t, group.Validate())
	assert.Equal(t, 64, group.Bits())
	assert.Equal(t, 65, group.P.BitLen())
}

func TestSampleGroup_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SampleGroup(ctx, seeded(t, "cancel"), 64, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewKeyPair(t *testing.T) {
	key := testKey(t, 64, "keypair")
	group := key.Group

	assert.Positive(t, key.X.Sign())
	assert.Negative(t, key.X.Cmp(group.Q))
	assert.Zero(t, group.Exp(group.G, key.X).Cmp(key.H))
	assert.NoError(t, key.Public().Validate())

	_, err := NewKeyPair(seeded(t, "x"), &Group{P: big.NewInt(5), Q: big.NewInt(2), G: big.NewInt(4)})
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestPublicKeyValidate(t *testing.T) {
	group := &Group{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(2)}
	assert.NoError(t, (&PublicKey{Group: group, H: big.NewInt(8)}).Validate())
	assert.ErrorIs(t, (&PublicKey{Group: group, H: big.NewInt(1)}).Validate(), ErrInvalidKey)
	assert.ErrorIs(t, (&PublicKey{Group: group, H: big.NewInt(5)}).Validate(), ErrInvalidKey)
	assert.ErrorIs(t, (&PublicKey{H: big.NewInt(8)}).Validate(), ErrInvalidKey)
}

func TestEncryptDecrypt(t *testing.T) {
	key := testKey(t, 128, "encrypt")
	maxMessage := new(big.Int).Lsh(big.NewInt(1), MaxMessageBits)
	maxMessage.Sub(maxMessage, big.NewInt(1))

	messages := []*big.Int{
		big.NewInt(0),
		big.NewInt(420420),
		new(big.Int).Lsh(big.NewInt(1), 200),
		maxMessage,
	}
	for _, m := range messages {
		ct, r, err := Encrypt(seeded(t, "encrypt/"+m.String()), key.Public(), m)
		require.NoError(t, err)
		require.NoError(t, ct.Validate(key.Group))

		// k = h^r is the session key
		k := key.Group.Exp(key.H, r)
		assert.Zero(t, key.Group.Exp(key.Group.G, r).Cmp(ct.C1))
		assert.True(t, VerifyCommitment(k, ct.Commitment))

		got, err := Decrypt(ct, k)
		require.NoError(t, err)
		assert.Zero(t, m.Cmp(got))

		got, err = DecryptWithKey(key, ct)
		require.NoError(t, err)
		assert.Zero(t, m.Cmp(got))
	}
}

func TestEncrypt_MessageTooLarge(t *testing.T) {
	key := testKey(t, 64, "too-large")

	_, _, err := Encrypt(seeded(t, "m"), key.Public(), new(big.Int).Lsh(big.NewInt(1), MaxMessageBits))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
	_, _, err = Encrypt(seeded(t, "m"), key.Public(), big.NewInt(-1))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestEncrypt_FreshRandomness(t *testing.T) {
	key := testKey(t, 64, "fresh")
	r := seeded(t, "fresh-encrypt")
	m := big.NewInt(420420)

	a, _, err := Encrypt(r, key.Public(), m)
	require.NoError(t, err)
	b, _, err := Encrypt(r, key.Public(), m)
	require.NoError(t, err)

	assert.NotEqual(t, a.Seed, b.Seed)
	assert.NotZero(t, a.C1.Cmp(b.C1))
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := testKey(t, 64, "wrong-key")
	ct, r, err := Encrypt(seeded(t, "wk"), key.Public(), big.NewInt(420420))
	require.NoError(t, err)

	k := key.Group.Exp(key.H, r)
	wrong := new(big.Int).Mul(k, key.Group.G)
	wrong.Mod(wrong, key.Group.P)

	_, err = Decrypt(ct, wrong)
	assert.ErrorIs(t, err, ErrCommitmentMismatch)

	bad := *ct
	bad.Seed = bad.Seed[:16]
	_, err = Decrypt(&bad, k)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestExtract(t *testing.T) {
	k := big.NewInt(123456789)
	seedA := bytes.Repeat([]byte{0x01}, SeedSize)
	seedB := bytes.Repeat([]byte{0x02}, SeedSize)

	a1, err := Extract(seedA, k)
	require.NoError(t, err)
	a2, err := Extract(seedA, k)
	require.NoError(t, err)
	b, err := Extract(seedB, k)
	require.NoError(t, err)
	c, err := Extract(seedA, big.NewInt(987654321))
	require.NoError(t, err)

	assert.Len(t, a1, ExtractSize)
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.NotEqual(t, a1, c)

	_, err = Extract(seedA[:8], k)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
	_, err = Extract(seedA, nil)
	assert.Error(t, err)
}

func TestCommit(t *testing.T) {
	k := big.NewInt(42)
	c := Commit(k)
	assert.Len(t, c, CommitmentSize)
	assert.Equal(t, c, Commit(big.NewInt(42)))
	assert.NotEqual(t, c, Commit(big.NewInt(43)))
	assert.True(t, VerifyCommitment(k, c))
	assert.False(t, VerifyCommitment(big.NewInt(43), c))
	assert.False(t, VerifyCommitment(nil, c))
}

func TestSealOpen(t *testing.T) {
	key := testKey(t, 64, "envelope")
	plaintext := bytes.Repeat([]byte("weighted ramp threshold "), 64)
	aad := []byte("session-1")

	env, err := Seal(seeded(t, "seal"), key.Public(), plaintext, aad)
	require.NoError(t, err)

	got, err := OpenWithKey(key, env, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	_, err = OpenWithKey(key, env, []byte("session-2"))
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	tampered := *env
	tampered.Sealed = append([]byte(nil), env.Sealed...)
	tampered.Sealed[0] ^= 0xff
	_, err = OpenWithKey(key, &tampered, aad)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = Open(env, big.NewInt(2), aad)
	assert.ErrorIs(t, err, ErrCommitmentMismatch)

	_, err = Open(&Envelope{C1: env.C1}, big.NewInt(2), aad)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func BenchmarkEncrypt(b *testing.B) {
	key := testKey(b, 256, "bench")
	r := seeded(b, "bench-encrypt")
	m := big.NewInt(420420)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Encrypt(r, key.Public(), m); err != nil {
			b.Fatal(err)
		}
	}
}
