package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates no active session for the given token id.
var ErrSessionNotFound = errors.New("session not found")

// Session mirrors an issued token so logins stay revocable.
type Session struct {
	TokenID  string    `json:"token_id"`
	UserID   int64     `json:"user_id"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issued_at"`
}

// SessionStore keeps active login sessions in redis with a TTL matching token expiry.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore returns redis-backed store.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(tokenID string) string {
	return fmt.Sprintf("auth:sessions:%s", tokenID)
}

// Save caches the session until the token expires.
func (s *SessionStore) Save(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.TokenID), data, s.ttl).Err()
}

// Get returns the cached session or ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, tokenID string) (*Session, error) {
	result, err := s.client.Get(ctx, s.key(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete revokes the session.
func (s *SessionStore) Delete(ctx context.Context, tokenID string) error {
	return s.client.Del(ctx, s.key(tokenID)).Err()
}
