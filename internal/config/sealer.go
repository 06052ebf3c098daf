package config

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// SealedValue is an encrypted field as stored in participant_sensitive_info.
// Both parts are base64 encoded.
type SealedValue struct {
	Ciphertext string
	Nonce      string
}

// Sealer encrypts sensitive fields (currently only the SSN) before they are
// persisted. Every call to Seal uses a fresh random nonce.
type Sealer struct {
	key []byte
}

// NewSealer creates a Sealer from a 64 character hex key.
func NewSealer(hexKey string) (*Sealer, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid SSN_ENCRYPTION_KEY: %v", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid SSN_ENCRYPTION_KEY: got %d bytes, want %d", len(key), chacha20poly1305.KeySize)
	}
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext. additionalData binds the ciphertext to its owner
// (e.g. the participant ID) and must be supplied again to Open.
func (s *Sealer) Seal(plaintext, additionalData string) (SealedValue, error) {
	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return SealedValue{}, fmt.Errorf("failed to init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return SealedValue{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ct := aead.Seal(nil, nonce, []byte(plaintext), []byte(additionalData))
	return SealedValue{
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(v SealedValue, additionalData string) (string, error) {
	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(v.Nonce)
	if err != nil {
		return "", fmt.Errorf("failed to decode nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(v.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	pt, err := aead.Open(nil, nonce, ct, []byte(additionalData))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt value: %w", err)
	}
	return string(pt), nil
}
