package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/basso-ws/workspace-backend/internal/session/domain"
)

const (
	tokenKeyPrefix    = "ws:session:token:"  // Session data per access token: ws:session:token:{token}
	currentKey        = "ws:session:current" // Pointer to the bootstrap session's token
	tokenIndexKey     = "ws:session:tokens"  // Set of live token ids (swept periodically)
	authEventChannel  = "ws:auth:events"     // Pub/Sub channel for auth state changes
	defaultSessionTTL = 24 * time.Hour
)

// Store keeps session snapshots in Redis, keyed by access token, with a
// pointer to the current session used by the bootstrap path.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save persists the session under its token and marks it current.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	if sess.AccessToken == "" {
		return fmt.Errorf("access token required")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}

	ttl := defaultSessionTTL
	if !sess.ExpiresAt.IsZero() {
		if until := time.Until(sess.ExpiresAt); until > 0 {
			ttl = until
		}
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.tokenKey(sess.AccessToken), data, ttl)
	pipe.Set(ctx, currentKey, sess.AccessToken, ttl)
	pipe.SAdd(ctx, tokenIndexKey, sess.AccessToken)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetByToken resolves a session by its access token.
func (s *Store) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// LoadCurrent returns the session the current pointer designates.
func (s *Store) LoadCurrent(ctx context.Context) (*domain.Session, error) {
	token, err := s.client.Get(ctx, currentKey).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}
	return s.GetByToken(ctx, token)
}

// Clear removes the current session and its token entry. Safe to call when
// nothing is stored.
func (s *Store) Clear(ctx context.Context) error {
	token, err := s.client.Get(ctx, currentKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read current session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, currentKey)
	if token != "" {
		pipe.Del(ctx, s.tokenKey(token))
		pipe.SRem(ctx, tokenIndexKey, token)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Delete removes a single token's session.
func (s *Store) Delete(ctx context.Context, token string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.tokenKey(token))
	pipe.SRem(ctx, tokenIndexKey, token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PublishAuthEvent notifies subscribers that the auth state changed elsewhere
// (token refresh, external sign-out).
func (s *Store) PublishAuthEvent(ctx context.Context, kind string) error {
	return s.client.Publish(ctx, authEventChannel, kind).Err()
}

// SubscribeAuthEvents opens a subscription on the auth events channel. The
// caller owns the returned PubSub and must Close it.
func (s *Store) SubscribeAuthEvents(ctx context.Context) *redis.PubSub {
	return s.client.Subscribe(ctx, authEventChannel)
}

// PruneTokenIndex drops index entries whose session key already expired.
// Value keys carry TTLs; the index set does not, so it needs sweeping.
func (s *Store) PruneTokenIndex(ctx context.Context) (int, error) {
	tokens, err := s.client.SMembers(ctx, tokenIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list token index: %w", err)
	}

	pruned := 0
	for _, token := range tokens {
		exists, err := s.client.Exists(ctx, s.tokenKey(token)).Result()
		if err != nil {
			return pruned, fmt.Errorf("failed to check token %s: %w", token, err)
		}
		if exists == 0 {
			if err := s.client.SRem(ctx, tokenIndexKey, token).Err(); err != nil {
				return pruned, fmt.Errorf("failed to prune token %s: %w", token, err)
			}
			pruned++
		}
	}
	return pruned, nil
}

func (s *Store) tokenKey(token string) string {
	return fmt.Sprintf("%s%s", tokenKeyPrefix, token)
}
