package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// EncryptString encrypts a plaintext string using AES-256-GCM.
// This provides authenticated encryption: tampering with the ciphertext is
// detected at decryption time.
//
// Parameters:
//   - plaintext: The plaintext to encrypt
//   - encryptionKey: The key to use for encryption (must be at least 32 bytes)
//
// Returns:
//   - The base64-encoded ciphertext with the nonce prepended
//   - An error if encryption fails
func EncryptString(plaintext string, encryptionKey []byte) (string, error) {
	block, err := aes.NewCipher(encryptionKey[:32])
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to create nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts a string that was encrypted with EncryptString.
//
// Parameters:
//   - encrypted: The base64-encoded ciphertext with the nonce prepended
//   - encryptionKey: The key used for encryption (must be at least 32 bytes)
//
// Returns:
//   - The decrypted plaintext
//   - An error if decoding or authentication fails
func DecryptString(encrypted string, encryptionKey []byte) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	block, err := aes.NewCipher(encryptionKey[:32])
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
