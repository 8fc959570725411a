package oauthvault_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/pkg/oauthvault"
)

func TestNewChallengeProducesDistinctValuesEachCall(t *testing.T) {
	a, err := oauthvault.NewChallenge()
	require.NoError(t, err)
	b, err := oauthvault.NewChallenge()
	require.NoError(t, err)

	assert.NotEmpty(t, a.Verifier)
	assert.NotEmpty(t, a.Challenge)
	assert.NotEmpty(t, a.State)
	assert.NotEqual(t, a.Verifier, b.Verifier)
	assert.NotEqual(t, a.Challenge, a.Verifier)
}

func TestVaultSealOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	v, err := oauthvault.Open(dir)
	require.NoError(t, err)

	sealed, err := v.Seal([]byte("a-refresh-token"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "a-refresh-token")

	plain, err := v.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "a-refresh-token", string(plain))
}

func TestVaultPersistsKeyAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	v1, err := oauthvault.Open(dir)
	require.NoError(t, err)
	sealed, err := v1.Seal([]byte("token-a"))
	require.NoError(t, err)

	v2, err := oauthvault.Open(dir)
	require.NoError(t, err)
	plain, err := v2.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "token-a", string(plain))

	info, err := os.Stat(filepath.Join(dir, "connector_key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestVaultOpenRejectsCorruptBlob(t *testing.T) {
	dir := t.TempDir()
	v, err := oauthvault.Open(dir)
	require.NoError(t, err)

	_, err = v.Open([]byte("too short"))
	assert.Error(t, err)
}
