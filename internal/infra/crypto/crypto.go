// Package crypto provides at-rest encryption for stored values.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// NonceSize is the size of the nonce for AES-GCM (12 bytes).
	NonceSize = 12
	// KeySize is the size of the AES-256 key (32 bytes).
	KeySize = 32
)

var (
	// ErrInvalidKey is returned when the encryption key is invalid.
	ErrInvalidKey = errors.New("invalid encryption key: must be 32 bytes (64 hex characters)")
	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Encryptor seals values with AES-256-GCM.
// The nonce is an HMAC of the plaintext, so equal plaintexts produce equal
// ciphertexts and content-addressed storage does not grow on rewrites.
type Encryptor struct {
	gcm     cipher.AEAD
	nonceMK []byte
}

// NewEncryptor creates a new Encryptor with the given hex-encoded key.
// The key must be 64 hex characters (32 bytes).
func NewEncryptor(hexKey string) (*Encryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	// Separate the nonce key from the cipher key.
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("todo-this-week nonce"))

	return &Encryptor{gcm: gcm, nonceMK: mac.Sum(nil)}, nil
}

// Encrypt returns nonce (12 bytes) + ciphertext + auth tag.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, e.nonceMK)
	mac.Write(plaintext)
	nonce := mac.Sum(nil)[:NonceSize]

	return e.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a value produced by Encrypt.
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize+e.gcm.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	nonce := ciphertext[:NonceSize]
	plaintext, err := e.gcm.Open(nil, nonce, ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
