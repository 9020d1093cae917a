package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	encrypted, err := Encrypt("sk-ant-secret-value", key)
	require.NoError(t, err)
	assert.NotEqual(t, "sk-ant-secret-value", encrypted)

	plaintext, err := Decrypt(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-secret-value", plaintext)
}

func TestEncrypt_NonceIsRandom(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	a, err := Encrypt("same input", key)
	require.NoError(t, err)
	b, err := Encrypt("same input", key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEncrypt_EmptyInput(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	_, err = Encrypt("", key)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Encrypt("data", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestEncrypt_WrongKeySize(t *testing.T) {
	_, err := Encrypt("data", []byte("too short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	encrypted, err := Encrypt("sensitive", key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encrypted)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = Decrypt(tampered, key)
	assert.ErrorIs(t, err, ErrCiphertextInvalid)
}

func TestDecrypt_WrongKey(t *testing.T) {
	key1, err := NewKey()
	require.NoError(t, err)
	key2, err := NewKey()
	require.NoError(t, err)

	encrypted, err := Encrypt("sensitive", key1)
	require.NoError(t, err)

	_, err = Decrypt(encrypted, key2)
	assert.ErrorIs(t, err, ErrCiphertextInvalid)
}

func TestDecrypt_Malformed(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	t.Run("not base64", func(t *testing.T) {
		_, err := Decrypt("not-base64!!!", key)
		assert.ErrorIs(t, err, ErrCiphertextInvalid)
	})

	t.Run("too short for nonce", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("tiny"))
		_, err := Decrypt(short, key)
		assert.ErrorIs(t, err, ErrCiphertextInvalid)
	})
}

func TestKeyEncoding(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	decoded, err := DecodeKey(EncodeKey(key))
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestDecodeKey_Invalid(t *testing.T) {
	_, err := DecodeKey("zzzz")
	assert.Error(t, err)

	_, err = DecodeKey("abcd")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
