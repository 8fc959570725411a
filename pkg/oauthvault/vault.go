package oauthvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const keyFileName = "connector_key"

// Vault encrypts and decrypts refresh tokens at rest with AES-256-GCM,
// keyed by a 32-byte blob kept at <data_dir>/connector_key (0600).
// Wire layout is nonce(12) || ciphertext || tag(16), matching §6's
// persisted-state contract.
type Vault struct {
	aead cipher.AEAD
}

// Open loads the connector key from dataDir, generating and persisting
// one with 0600 permissions if it doesn't exist yet.
func Open(dataDir string) (*Vault, error) {
	key, err := loadOrCreateKey(filepath.Join(dataDir, keyFileName))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("oauthvault: build cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("oauthvault: build GCM: %w", err)
	}
	return &Vault{aead: aead}, nil
}

// Seal encrypts plaintext (typically a refresh token), returning
// nonce || ciphertext || tag as a single blob.
func (v *Vault) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("oauthvault: generate nonce: %w", err)
	}
	return v.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal.
func (v *Vault) Open(sealed []byte) ([]byte, error) {
	nonceSize := v.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("oauthvault: sealed blob shorter than nonce")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("oauthvault: decrypt: %w", err)
	}
	return plaintext, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != 32 {
			return nil, fmt.Errorf("oauthvault: key file %s is %d bytes, want 32", path, len(data))
		}
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("oauthvault: read key file: %w", err)
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("oauthvault: generate key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("oauthvault: write key file: %w", err)
	}
	return key, nil
}
