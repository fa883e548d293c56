package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const derivedKeyLen = 32 // AES-256

// deriveAESKey expands the store's master key into a per-entry key,
// using the secret ID as the HKDF salt. Credentials stored under
// different IDs never share an encryption key.
func deriveAESKey(masterKey []byte, secretID string) []byte {
	kdf := hkdf.New(sha256.New, masterKey, []byte(secretID), nil)
	key := make([]byte, derivedKeyLen)
	_, _ = io.ReadFull(kdf, key) // hkdf reads of one key length cannot fail
	return key
}

// encryptAESGCM seals plaintext with AES-GCM and returns the
// hex-encoded, nonce-prefixed ciphertext.
func encryptAESGCM(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return hex.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

// decryptAESGCM reverses encryptAESGCM. It fails when the ciphertext was
// tampered with or sealed under a different derived key.
func decryptAESGCM(key []byte, encrypted string) (string, error) {
	data, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext shorter than the %d byte nonce", gcm.NonceSize())
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
