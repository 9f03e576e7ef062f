package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cperrin88/linkhash/pkg/hashes"
)

func setupCLIConfig(t *testing.T) {
	t.Helper()
	missing := filepath.Join(t.TempDir(), "config.yaml")
	ConfigPath = &missing
	t.Cleanup(func() { ConfigPath = nil })
}

func TestCollectionInitAddShowRoundTrip(t *testing.T) {
	setupCLIConfig(t)
	path := filepath.Join(t.TempDir(), "hashes.json")

	full := "sha256:" + strings.Repeat("ab", 32)
	require.NoError(t, runCollectionInit(path, full, 4096))

	p1 := "sha1:" + strings.Repeat("01", 20)
	p2 := "sha1:" + strings.Repeat("02", 20)
	require.NoError(t, runCollectionAdd(path, []string{p1, p2}))

	coll, err := readCollection(path)
	require.NoError(t, err)
	assert.Equal(t, "SHA256:"+strings.Repeat("ab", 32), coll.Full().String())
	assert.Equal(t, int64(4096), coll.PartialLength())

	partials := coll.Partials()
	require.Len(t, partials, 2)
	assert.Equal(t, hashes.SHA1, partials[0].Algorithm)
	assert.Equal(t, strings.Repeat("01", 20), partials[0].Sum)
	assert.Equal(t, strings.Repeat("02", 20), partials[1].Sum)
}

func TestCollectionInit_RejectsMalformedFull(t *testing.T) {
	setupCLIConfig(t)
	path := filepath.Join(t.TempDir(), "hashes.json")

	err := runCollectionInit(path, "sha256:tooshort", 0)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestCollectionAdd_RejectsMalformedPartial(t *testing.T) {
	setupCLIConfig(t)
	path := filepath.Join(t.TempDir(), "hashes.json")

	full := "md5:" + strings.Repeat("cd", 16)
	require.NoError(t, runCollectionInit(path, full, 0))

	err := runCollectionAdd(path, []string{"sha1:nothex"})
	require.Error(t, err)

	// The file keeps its previous contents.
	coll, err := readCollection(path)
	require.NoError(t, err)
	assert.False(t, coll.HasPartials())
}

func TestReadCollection_MissingFile(t *testing.T) {
	_, err := readCollection(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
