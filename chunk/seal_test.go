package chunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/chunk"
	"xdao.co/dchunk/keys"
	"xdao.co/dchunk/model"
	"xdao.co/dchunk/storage"
)

func testFactory(t *testing.T, opts ...keys.Option) *keys.Factory {
	t.Helper()
	f, err := keys.NewFactory(append([]keys.Option{keys.WithRSABits(1024)}, opts...)...)
	require.NoError(t, err)
	return f
}

func testIdentity(t *testing.T, f *keys.Factory) keys.Identity {
	t.Helper()
	id, err := f.NewIdentity()
	require.NoError(t, err)
	return id
}

func TestSeal_PlainIsVersionZero(t *testing.T) {
	f := testFactory(t)
	key := addr.Untimed(addr.NewId("doc"))
	c, err := chunk.Seal(key, []byte("hello"), nil, chunk.PlainCrypto(nil))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00hello"), c.Data)

	opened, err := chunk.NewOpener(f, nil).Open(c, chunk.DeChunkerCrypto{})
	require.NoError(t, err)
	assert.False(t, opened.Signed)
	assert.Equal(t, []byte("hello"), opened.Payload)
}

func TestSeal_EmbeddedKey(t *testing.T) {
	f := testFactory(t)
	id := testIdentity(t, f)
	key := addr.Untimed(addr.NewId("doc"))
	refs := [][]byte{{4}, {5}}

	c, err := chunk.Seal(key, []byte("payload"), refs, chunk.EmbeddedKeyCrypto(id, nil))
	require.NoError(t, err)

	opener := chunk.NewOpener(f, nil)
	opened, err := opener.Open(c, chunk.DeChunkerCrypto{})
	require.NoError(t, err)
	assert.True(t, opened.Signed)
	assert.Equal(t, chunk.EmbeddedKey, opened.Mode)
	assert.Equal(t, id.SignatureCheckKey(), opened.Checker.SignatureCheckKey())
	assert.Equal(t, refs, opened.References())
	assert.Equal(t, []byte("payload"), opened.Payload)

	// The embedded key must match a supplied trust anchor.
	other := testIdentity(t, f)
	_, err = opener.Open(c, chunk.NewDeChunkerCrypto(other, nil))
	assert.True(t, model.IsKind(err, model.KindSignature), "got %v", err)
	_, err = opener.Open(c, chunk.NewDeChunkerCrypto(id, nil))
	require.NoError(t, err)
}

func TestOpen_UnsignedRejectedWithTrustedKey(t *testing.T) {
	f := testFactory(t)
	id := testIdentity(t, f)
	key := addr.Untimed(addr.NewId("doc"))

	b, err := chunk.NewBuilderV2(256)
	require.NoError(t, err)
	b.SetPayloadPart([]byte("forged payload"))
	forged, err := b.CreateChunk(key)
	require.NoError(t, err)

	opener := chunk.NewOpener(f, nil)
	_, err = opener.Open(forged, chunk.NewDeChunkerCrypto(id, nil))
	assert.True(t, model.IsKind(err, model.KindSignature), "got %v", err)
	_, err = opener.Verify(forged, chunk.NewDeChunkerCrypto(id, nil))
	assert.True(t, model.IsKind(err, model.KindSignature), "got %v", err)

	opened, err := opener.Open(forged, chunk.DeChunkerCrypto{})
	require.NoError(t, err)
	assert.False(t, opened.Signed)
}

func TestSeal_ZeroIdRejected(t *testing.T) {
	_, err := chunk.Seal(addr.Untimed(addr.NewId("")), []byte("x"), nil, chunk.PlainCrypto(nil))
	assert.True(t, model.IsKind(err, model.KindContract), "got %v", err)

	ch, err := chunk.NewChainer(storage.NewMemory(), 64, chunk.PlainCrypto(nil), nil)
	require.NoError(t, err)
	_, err = ch.Split(addr.Key{}, []byte("x"))
	assert.True(t, model.IsKind(err, model.KindContract), "got %v", err)
}

func TestSeal_TamperedPayloadRejected(t *testing.T) {
	f := testFactory(t)
	id := testIdentity(t, f)
	c, err := chunk.Seal(addr.Untimed(addr.NewId("doc")), []byte("payload"), nil, chunk.EmbeddedKeyCrypto(id, nil))
	require.NoError(t, err)

	c.Data[len(c.Data)-1] ^= 0x01
	_, err = chunk.NewOpener(f, nil).Verify(c, chunk.DeChunkerCrypto{})
	assert.True(t, model.IsKind(err, model.KindSignature), "got %v", err)
}

func TestSeal_ExternalKey(t *testing.T) {
	f := testFactory(t)
	id := testIdentity(t, f)
	c, err := chunk.Seal(addr.Untimed(addr.NewId("doc")), []byte("payload"), nil, chunk.ExternalKeyCrypto(id, nil))
	require.NoError(t, err)

	s, err := c.Structure()
	require.NoError(t, err)
	_, hasKey := s.Find(chunk.TypePublicKey)
	assert.False(t, hasKey)

	opener := chunk.NewOpener(f, nil)
	_, err = opener.Open(c, chunk.DeChunkerCrypto{})
	assert.True(t, model.IsKind(err, model.KindSignature), "got %v", err)

	opened, err := opener.Open(c, chunk.NewDeChunkerCrypto(id, nil))
	require.NoError(t, err)
	assert.Equal(t, chunk.NoKey, opened.Mode)
	assert.True(t, opened.Signed)
}

func TestSeal_ListIdKey(t *testing.T) {
	f := testFactory(t)
	list := testIdentity(t, f)
	cc := chunk.ListKeyCrypto(list, nil)
	listID, ok := cc.ListID()
	require.True(t, ok)
	key, err := addr.NewKey(listID, 42)
	require.NoError(t, err)

	c, err := chunk.Seal(key, []byte("entry"), nil, cc)
	require.NoError(t, err)

	opener := chunk.NewOpener(f, nil)
	opened, err := opener.Open(c, chunk.NewDeChunkerCrypto(list, nil))
	require.NoError(t, err)
	assert.Equal(t, chunk.ListIdKey, opened.Mode)

	// Readdressed under another Id, the list key no longer vouches for it.
	moved := chunk.DataChunk{Key: addr.Untimed(addr.NewId("elsewhere")), Data: c.Data}
	_, err = opener.Open(moved, chunk.NewDeChunkerCrypto(list, nil))
	assert.True(t, model.IsKind(err, model.KindSignature), "got %v", err)

	_, err = chunk.Seal(addr.Untimed(addr.NewId("elsewhere")), []byte("entry"), nil, cc)
	assert.True(t, model.IsKind(err, model.KindContract), "got %v", err)
}

func TestSeal_EncryptedPayload(t *testing.T) {
	for _, tag := range []keys.Tag{keys.TagAES256, keys.TagXChaCha20Poly1305} {
		f := testFactory(t, keys.WithSymmetric(tag))
		id := testIdentity(t, f)
		cryptor, err := f.NewCryptor()
		require.NoError(t, err)

		c, err := chunk.Seal(addr.Untimed(addr.NewId("secret")), []byte("clear text"), nil, chunk.EmbeddedKeyCrypto(id, cryptor))
		require.NoError(t, err)
		s, err := c.Structure()
		require.NoError(t, err)
		assert.NotEqual(t, []byte("clear text"), s.Payload, tag.String())

		opener := chunk.NewOpener(f, nil)
		opened, err := opener.Open(c, chunk.NewDeChunkerCrypto(nil, cryptor))
		require.NoError(t, err, tag.String())
		assert.Equal(t, []byte("clear text"), opened.Payload, tag.String())

		verified, err := opener.Verify(c, chunk.DeChunkerCrypto{})
		require.NoError(t, err)
		assert.Equal(t, s.Payload, verified.Payload)
	}
}

func TestSeal_EnvelopeToRecipient(t *testing.T) {
	f := testFactory(t)
	sender := testIdentity(t, f)
	recipient := testIdentity(t, f)

	cc := chunk.EmbeddedKeyCrypto(sender, keys.NewEnvelopeEncryptor(f, recipient))
	c, err := chunk.Seal(addr.Untimed(addr.NewId("mail")), []byte("for your eyes only"), nil, cc)
	require.NoError(t, err)

	opened, err := chunk.NewOpener(f, nil).Open(c, chunk.NewDeChunkerCrypto(nil, recipient))
	require.NoError(t, err)
	assert.Equal(t, []byte("for your eyes only"), opened.Payload)

	_, err = chunk.NewOpener(f, nil).Open(c, chunk.NewDeChunkerCrypto(nil, sender))
	assert.True(t, model.IsKind(err, model.KindDecrypt), "got %v", err)
}

func TestSeal_Dilithium(t *testing.T) {
	f := testFactory(t, keys.WithAsymmetric(keys.TagDilithium3Public))
	id := testIdentity(t, f)
	c, err := chunk.Seal(addr.Untimed(addr.NewId("pq")), []byte("post-quantum"), nil, chunk.EmbeddedKeyCrypto(id, nil))
	require.NoError(t, err)

	opened, err := chunk.NewOpener(f, nil).Open(c, chunk.DeChunkerCrypto{})
	require.NoError(t, err)
	assert.Equal(t, keys.AlgDilithium3, opened.Checker.Algorithm())
}

func TestOpen_UnknownSignMode(t *testing.T) {
	b := chunk.NewBuilderV1()
	b.SetSignMode(chunk.SignMode(7))
	b.SetSignature([]byte{1})
	c, err := b.CreateChunk(addr.Untimed(addr.NewId("x")))
	require.NoError(t, err)
	_, err = chunk.NewOpener(testFactory(t), nil).Verify(c, chunk.DeChunkerCrypto{})
	assert.True(t, model.IsKind(err, model.KindFormat), "got %v", err)
}
