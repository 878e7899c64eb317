package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// RecordKeySize is the size of a record key in bytes
const RecordKeySize = 32

// NewRecordKey reads a fresh record key from r
func NewRecordKey(r io.Reader) ([]byte, error) {
	key := make([]byte, RecordKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to generate record key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext with AES-GCM under key.
// The output is nonce || ciphertext || tag.
func Seal(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal
func Open(sealed, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize()+gcm.Overhead() {
		return nil, fmt.Errorf("%w: sealed data too short", ErrAuthFailure)
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	return plaintext, nil
}

// WrapKey encrypts a record key with a shared folder key
func WrapKey(recordKey, folderKey []byte) ([]byte, error) {
	return Seal(recordKey, folderKey)
}

// UnwrapKey reverses WrapKey
func UnwrapKey(wrapped, folderKey []byte) ([]byte, error) {
	return Open(wrapped, folderKey)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("invalid AES key: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise AES-GCM: %w", err)
	}
	return gcm, nil
}
