package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyStore_IdentityRoundTrip(t *testing.T) {
	f := newTestFactory(t, WithRSABits(1024))
	id, err := f.NewIdentity()
	require.NoError(t, err)
	ks, err := CreateKeyStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ks.SaveIdentity("alice", id, false))
	assert.Error(t, ks.SaveIdentity("alice", id, false), "SaveIdentity should refuse to overwrite")

	info, err := os.Stat(filepath.Join(ks.Directory, "alice", identityFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := ks.LoadIdentity(f, "alice")
	require.NoError(t, err)
	sig, err := loaded.Sign([]byte("m"))
	require.NoError(t, err)
	checker, err := ks.LoadChecker(f, "alice")
	require.NoError(t, err)
	assert.True(t, checker.IsSignatureValid([]byte("m"), sig))
	assert.True(t, id.IsSignatureValid([]byte("m"), sig))
}

func TestKeyStore_SymmetricAndList(t *testing.T) {
	f := newTestFactory(t, WithRSABits(1024))
	ks := &KeyStore{Directory: t.TempDir()}

	c, err := f.NewCryptor()
	require.NoError(t, err)
	require.NoError(t, ks.SaveSymmetric("team", c, false))
	loaded, err := ks.LoadCryptor(f, "team")
	require.NoError(t, err)
	ct, err := c.Encrypt([]byte("shared"))
	require.NoError(t, err)
	pt, err := loaded.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "shared", string(pt))

	id, err := f.NewIdentity()
	require.NoError(t, err)
	require.NoError(t, ks.SaveIdentity("bob", id, false))

	entries, err := ks.ListKeys()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].Name)
	assert.Equal(t, "team", entries[1].Name)
	assert.Equal(t, "identity", entries[0].Kinds[0])
	assert.Equal(t, "symmetric", entries[1].Kinds[0])
}

func TestKeyStore_RejectsBadNames(t *testing.T) {
	ks := &KeyStore{Directory: t.TempDir()}
	f := newTestFactory(t)
	for _, name := range []string{"", "../escape", "a b", "x/y"} {
		_, err := ks.LoadIdentity(f, name)
		assert.Error(t, err, "LoadIdentity(%q)", name)
	}
	entries, err := (&KeyStore{Directory: filepath.Join(t.TempDir(), "missing")}).ListKeys()
	require.NoError(t, err)
	assert.Nil(t, entries)
}
