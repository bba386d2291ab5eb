package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// One-shot AES transforms used by the BEE header and image encryption.
// ECB and CBC operate on whole AES blocks only; CTR accepts any length.

// RandomBytes returns n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return buf, nil
}

// EncryptAesEcb encrypts data with AES in ECB mode.
func EncryptAesEcb(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ECB data length %d is not block aligned", len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// DecryptAesEcb decrypts data with AES in ECB mode.
func DecryptAesEcb(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ECB data length %d is not block aligned", len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		block.Decrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// EncryptAesCbc encrypts data with AES in CBC mode.
func EncryptAesCbc(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("CBC IV length %d, expected %d", len(iv), aes.BlockSize)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("CBC data length %d is not block aligned", len(data))
	}
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)
	return out, nil
}

// DecryptAesCbc decrypts data with AES in CBC mode.
func DecryptAesCbc(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("CBC IV length %d, expected %d", len(iv), aes.BlockSize)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("CBC data length %d is not block aligned", len(data))
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
	return out, nil
}

// EncryptAesCtr encrypts data with AES in CTR mode using the given
// 16-byte initial counter. The counter increments big-endian over the
// full 128 bits. CTR is symmetric, so this also decrypts.
func EncryptAesCtr(key, counter, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	if len(counter) != aes.BlockSize {
		return nil, fmt.Errorf("CTR counter length %d, expected %d", len(counter), aes.BlockSize)
	}
	out := make([]byte, len(data))
	cipher.NewCTR(block, counter).XORKeyStream(out, data)
	return out, nil
}
