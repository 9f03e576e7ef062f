package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cperrin88/linkhash/pkg/errors"
)

func TestDecode_UTF8Passthrough(t *testing.T) {
	var c Codec
	out, err := c.Decode("héllo wörld", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", out)
}

func TestDecode_EmptyNameMeansUTF8(t *testing.T) {
	var c Codec
	out, err := c.Decode("plain", "")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}

func TestDecode_Latin1(t *testing.T) {
	var c Codec
	// 0xE9 is "é" in ISO-8859-1.
	out, err := c.Decode("caf\xe9", "iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café", out)
}

func TestDecode_LabelAliases(t *testing.T) {
	var c Codec
	for _, name := range []string{"ISO-8859-1", "latin1", "iso8859-1"} {
		out, err := c.Decode("\xe9", name)
		require.NoError(t, err, name)
		assert.Equal(t, "é", out, name)
	}
}

func TestDecode_UnknownCharset(t *testing.T) {
	var c Codec
	_, err := c.Decode("text", "x-no-such-charset")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownCharset)
}

func TestDecodeURI(t *testing.T) {
	var c Codec
	out, err := c.DecodeURI("http://example.com/caf%E9", "iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/café", out)
}

func TestDecodeURI_MalformedEscape(t *testing.T) {
	var c Codec
	_, err := c.DecodeURI("http://example.com/%zz", "utf-8")
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("utf-8"))
	assert.True(t, Supported("windows-1252"))
	assert.True(t, Supported(""))
	assert.False(t, Supported("x-no-such-charset"))
}
