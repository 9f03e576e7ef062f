package hashes

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cperrin88/linkhash/pkg/errors"
)

func digestOf(alg Algorithm) string {
	return strings.Repeat("ab", alg.HexLength/2)
}

func TestNew_AllAlgorithms(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.Name, func(t *testing.T) {
			h, err := New(digestOf(alg), alg.Name)
			require.NoError(t, err)
			assert.Equal(t, alg, h.Algorithm)
			assert.Equal(t, digestOf(alg), h.Sum)
			assert.True(t, h.Valid())
		})
	}
}

func TestNew_NormalizesDigest(t *testing.T) {
	h, err := New("  AbAb "+strings.Repeat("ab", 14)+"\t", "md5")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ab", 16), h.Sum)
}

func TestNew_WrongLength(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.Name, func(t *testing.T) {
			short := digestOf(alg)[:alg.HexLength-1]
			_, err := New(short, alg.Name)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidHash)

			long := digestOf(alg) + "a"
			_, err = New(long, alg.Name)
			assert.ErrorIs(t, err, errors.ErrInvalidHash)
		})
	}
}

func TestNew_NonHex(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg.Name, func(t *testing.T) {
			bad := "g" + digestOf(alg)[1:]
			_, err := New(bad, alg.Name)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidHash)
		})
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(digestOf(SHA256), "sha3")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidHash)
	assert.ErrorIs(t, err, errors.ErrUnknownAlgorithm)
}

func TestParse_Token(t *testing.T) {
	h, err := Parse("sha256:" + digestOf(SHA256))
	require.NoError(t, err)
	assert.Equal(t, SHA256, h.Algorithm)

	_, err = Parse(digestOf(SHA256))
	assert.ErrorIs(t, err, errors.ErrInvalidHash)

	_, err = Parse("sha256:")
	assert.ErrorIs(t, err, errors.ErrInvalidHash)
}

func TestHash_Equality(t *testing.T) {
	a, err := New(digestOf(SHA1), "sha1")
	require.NoError(t, err)
	b, err := New(strings.ToUpper(digestOf(SHA1)), "SHA-1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, a == b)

	c, err := New(digestOf(SHA256), "sha256")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestHash_Preference(t *testing.T) {
	h, err := New(digestOf(MD5), "md5")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, h.Preference(), 0.0001)
}

func TestHash_JSONRoundTrip(t *testing.T) {
	h, err := New(digestOf(SHA512), "sha512")
	require.NoError(t, err)

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SHA512","sum":"`+digestOf(SHA512)+`"}`, string(data))

	var back Hash
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, h, back)
}

func TestHash_UnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong length", `{"type":"SHA256","sum":"abcd"}`},
		{"non hex", `{"type":"MD5","sum":"` + strings.Repeat("zz", 16) + `"}`},
		{"unknown type", `{"type":"CRC32","sum":"abcdef"}`},
		{"empty record", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Hash
			err := json.Unmarshal([]byte(tt.data), &h)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidHash)
		})
	}
}

func TestHash_String(t *testing.T) {
	h, err := New(digestOf(SHA1), "sha")
	require.NoError(t, err)
	assert.Equal(t, "SHA1:"+digestOf(SHA1), h.String())
}

func TestHash_ZeroValueInvalid(t *testing.T) {
	var h Hash
	assert.False(t, h.Valid())
}
