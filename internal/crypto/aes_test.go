package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(s)
	require.NoError(t, err)
	return data
}

// Vectors from NIST SP 800-38A, AES-128.
func TestEncryptAesEcb(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	plaintext := mustHex(t, "6bc1bee22e409f96e93d7e117393172a")
	expected := mustHex(t, "3ad77bb40d7a3660a89ecaf32466ef97")

	ciphertext, err := EncryptAesEcb(key, plaintext)
	require.NoError(t, err)
	assert.Equal(t, expected, ciphertext)

	decrypted, err := DecryptAesEcb(key, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptAesCbc(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	iv := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plaintext := mustHex(t, "6bc1bee22e409f96e93d7e117393172a")
	expected := mustHex(t, "7649abac8119b246cee98e9b12e9197d")

	ciphertext, err := EncryptAesCbc(key, iv, plaintext)
	require.NoError(t, err)
	assert.Equal(t, expected, ciphertext)

	decrypted, err := DecryptAesCbc(key, iv, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptAesCtr(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	counter := mustHex(t, "f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff")
	plaintext := mustHex(t, "6bc1bee22e409f96e93d7e117393172a")
	expected := mustHex(t, "874d6191b620e3261bef6864990db6ce")

	ciphertext, err := EncryptAesCtr(key, counter, plaintext)
	require.NoError(t, err)
	assert.Equal(t, expected, ciphertext)

	// CTR is symmetric
	decrypted, err := EncryptAesCtr(key, counter, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAesErrors(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")

	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "ECB bad key length",
			call: func() error {
				_, err := EncryptAesEcb([]byte{0x01}, make([]byte, 16))
				return err
			},
		},
		{
			name: "ECB unaligned data",
			call: func() error {
				_, err := EncryptAesEcb(key, make([]byte, 17))
				return err
			},
		},
		{
			name: "CBC bad IV length",
			call: func() error {
				_, err := EncryptAesCbc(key, make([]byte, 8), make([]byte, 16))
				return err
			},
		},
		{
			name: "CBC unaligned data",
			call: func() error {
				_, err := DecryptAesCbc(key, make([]byte, 16), make([]byte, 20))
				return err
			},
		},
		{
			name: "CTR bad counter length",
			call: func() error {
				_, err := EncryptAesCtr(key, make([]byte, 12), make([]byte, 16))
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.call())
		})
	}
}

func TestRandomBytes(t *testing.T) {
	first, err := RandomBytes(16)
	require.NoError(t, err)
	assert.Len(t, first, 16)

	second, err := RandomBytes(16)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
