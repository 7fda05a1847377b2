package auth

import (
	"context"
	"time"

	"healthtracker/internal/kv"
)

const revokedTokenKeyPrefix = "revoked:session:"

// TokenStoreInterface defines the interface for session revocation.
type TokenStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore records revoked session tokens in Redis until they expire.
type TokenStore struct {
	kv *kv.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(client *kv.Client) *TokenStore {
	return &TokenStore{kv: client}
}

// RevokeToken marks a token id as revoked for the rest of its lifetime.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.kv.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsTokenRevoked checks if a token has been revoked. An unreachable store
// reports not revoked.
func (s *TokenStore) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	return s.kv.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}
