package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	SetSecret("unit-test-seed")

	cipherText, err := EncryptSecret("sk-live-1234567890")
	require.NoError(t, err)
	assert.True(t, IsEncrypted(cipherText))
	assert.NotContains(t, cipherText, "sk-live")

	plain, err := DecryptSecret(cipherText)
	require.NoError(t, err)
	assert.Equal(t, "sk-live-1234567890", plain)
}

func TestEncryptUsesRandomNonce(t *testing.T) {
	SetSecret("unit-test-seed")

	a, err := EncryptSecret("same")
	require.NoError(t, err)
	b, err := EncryptSecret("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptWithWrongSeedFails(t *testing.T) {
	SetSecret("seed-a")
	cipherText, err := EncryptSecret("secret")
	require.NoError(t, err)

	SetSecret("seed-b")
	_, err = DecryptSecret(cipherText)
	assert.Error(t, err)
}

func TestDecryptPlaintextPassthrough(t *testing.T) {
	plain, err := DecryptSecret("legacy-plain-key")
	require.NoError(t, err)
	assert.Equal(t, "legacy-plain-key", plain)
}

func TestEncryptEmpty(t *testing.T) {
	_, err := EncryptSecret("  ")
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "sk-****cdef", MaskSecret("sk-0123456789abcdef"))
}

func TestCheckSecret(t *testing.T) {
	t.Setenv("APP_SECURITY_SECRET", "")
	SetSecret("")
	defer SetSecret("unit-test-seed")

	assert.False(t, Configured())
	assert.ErrorIs(t, CheckSecret(true), ErrSecretNotConfigured)
	assert.NoError(t, CheckSecret(false))

	t.Setenv("APP_SECURITY_SECRET", "from-env")
	assert.True(t, Configured())
	assert.NoError(t, CheckSecret(true))

	t.Setenv("APP_SECURITY_SECRET", "")
	SetSecret("from-config")
	assert.NoError(t, CheckSecret(true))
}
