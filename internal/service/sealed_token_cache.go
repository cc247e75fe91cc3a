package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"pix-gateway/internal/core/ports"
)

// SealedTokenCache encrypts PSP access tokens with AES-256-GCM before they
// reach the shared cache. The cache key is bound as additional data, so a
// value copied under another key fails to open.
type SealedTokenCache struct {
	inner ports.TokenCache
	aead  cipher.AEAD
}

// NewSealedTokenCache wraps inner. hexKey must be 64 hex characters.
func NewSealedTokenCache(inner ports.TokenCache, hexKey string) (*SealedTokenCache, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding token cache key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("token cache key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &SealedTokenCache{inner: inner, aead: aead}, nil
}

// Get returns nil, nil on a miss. A value that does not open is an error.
func (c *SealedTokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := c.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("sealed token too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plain, err := c.aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("opening sealed token: %w", err)
	}
	return plain, nil
}

// Set stores nonce || ciphertext.
func (c *SealedTokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}
	return c.inner.Set(ctx, key, c.aead.Seal(nonce, nonce, value, []byte(key)), ttl)
}
