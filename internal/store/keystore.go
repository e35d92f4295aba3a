// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// keystore.go encrypts credentials at rest with AES-256-GCM under a
// PBKDF2-derived key.
package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/birxuo/birxuo-tui/internal/util"
)

// EncryptedPrefix marks a value as encrypted (format: ENC:base64(nonce|ciphertext|tag))
const EncryptedPrefix = "ENC:"

const (
	// nonceSize is the AES-GCM nonce size (96 bits).
	nonceSize = 12

	// keySize is the AES-256 key size.
	keySize = 32

	// saltSize is the key derivation salt size.
	saltSize = 32

	// pbkdf2Iterations follows the OWASP 2023 recommendation for
	// PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

var (
	// ErrInvalidCiphertext indicates the ciphertext format is invalid.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// ErrDecryptionFailed indicates decryption failed (wrong key or tampered data).
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// zeroBytes securely zeros sensitive byte slices.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Keystore encrypts and decrypts short string values.
type Keystore struct {
	mu   sync.RWMutex
	aead cipher.AEAD
}

// NewKeystore derives the encryption key from passphrase and the salt
// stored at saltPath, creating a fresh salt on first use.
func NewKeystore(passphrase, saltPath string) (*Keystore, error) {
	salt, err := loadOrCreateSalt(saltPath)
	if err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}

	return &Keystore{aead: aead}, nil
}

// loadOrCreateSalt reads the salt file, generating one atomically when
// it does not exist yet.
func loadOrCreateSalt(saltPath string) ([]byte, error) {
	salt, err := os.ReadFile(saltPath)
	if err == nil {
		if len(salt) != saltSize {
			return nil, fmt.Errorf("salt file %s has wrong size %d", saltPath, len(salt))
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	salt = make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFileWithDir(saltPath, salt, 0600, 0700); err != nil {
		return nil, fmt.Errorf("failed to save salt: %w", err)
	}
	return salt, nil
}

// EncryptString encrypts plaintext and returns base64 ciphertext with
// the ENC: prefix.
func (k *Keystore) EncryptString(plaintext string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := k.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts an ENC:-prefixed value. Values without the
// prefix are returned unchanged.
func (k *Keystore) DecryptString(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(data) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := k.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// IsEncrypted checks if a string value is encrypted (has ENC: prefix).
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}
