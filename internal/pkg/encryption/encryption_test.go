package encryption_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscesim/consult-service/internal/pkg/encryption"
)

const rawKey = "0123456789abcdef0123456789abcdef"

func TestNewAESEncryptor_RawKey(t *testing.T) {
	enc, err := encryption.NewAESEncryptor(rawKey)

	require.NoError(t, err)
	assert.NotNil(t, enc)
}

func TestNewAESEncryptor_Base64Key(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(rawKey))

	enc, err := encryption.NewAESEncryptor(key)

	require.NoError(t, err)
	assert.NotNil(t, enc)
}

func TestNewAESEncryptor_InvalidKeyLength(t *testing.T) {
	enc, err := encryption.NewAESEncryptor("too short")

	assert.Error(t, err)
	assert.Nil(t, enc)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestAESEncryptor_EncryptDecrypt(t *testing.T) {
	enc, err := encryption.NewAESEncryptor(rawKey)
	require.NoError(t, err)

	plaintext := []byte(`{"userId":"user-1","transcript":[]}`)

	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, string(plaintext), ciphertext)

	decrypted, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAESEncryptor_EncryptDifferentNonces(t *testing.T) {
	enc, err := encryption.NewAESEncryptor(rawKey)
	require.NoError(t, err)

	first, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)
	second, err := enc.Encrypt([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAESEncryptor_Decrypt_InvalidCiphertext(t *testing.T) {
	enc, err := encryption.NewAESEncryptor(rawKey)
	require.NoError(t, err)

	_, err = enc.Decrypt("not base64 at all!!!")

	assert.Error(t, err)
}

func TestAESEncryptor_Decrypt_TamperedCiphertext(t *testing.T) {
	enc, err := encryption.NewAESEncryptor(rawKey)
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt([]byte("sensitive"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = enc.Decrypt(tampered)

	assert.Error(t, err)
}

func TestAESEncryptor_Decrypt_WrongKey(t *testing.T) {
	enc, err := encryption.NewAESEncryptor(rawKey)
	require.NoError(t, err)
	other, err := encryption.NewAESEncryptor(strings.Repeat("x", 32))
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt([]byte("sensitive"))
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)

	assert.Error(t, err)
}

func TestNoOpEncryptor(t *testing.T) {
	enc := encryption.NewNoOpEncryptor()

	ciphertext, err := enc.Encrypt([]byte("plain"))
	require.NoError(t, err)

	decrypted, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), decrypted)
}
