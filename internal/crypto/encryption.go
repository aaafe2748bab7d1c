// Package crypto seals LLM provider API keys with AES-256-GCM before they
// are written to the database.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const KeySize = 32

// Sealer encrypts and decrypts short secrets with a fixed key.
type Sealer struct {
	gcm cipher.AEAD
}

// NewSealer builds a Sealer from a base64 encoded 32 byte key. An empty key
// generates a random one, so sealed values do not survive a restart.
func NewSealer(keyString string) (*Sealer, error) {
	var key []byte
	if keyString == "" {
		key = make([]byte, KeySize)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("generating key: %w", err)
		}
	} else {
		var err error
		key, err = base64.StdEncoding.DecodeString(keyString)
		if err != nil {
			return nil, fmt.Errorf("decoding key: %w", err)
		}
	}

	if len(key) != KeySize {
		return nil, errors.New("encryption key must be 32 bytes for AES-256")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{gcm: gcm}, nil
}

// Seal encrypts plaintext with a random nonce and returns it base64 encoded.
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	out := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}

	n := s.gcm.NonceSize()
	if len(data) < n {
		return "", errors.New("ciphertext too short")
	}

	plaintext, err := s.gcm.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// MaskAPIKey returns a masked version of the API key for display (e.g., "sk-...abc123")
func MaskAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 10 {
		return "***"
	}
	return apiKey[:3] + "..." + apiKey[len(apiKey)-4:]
}
