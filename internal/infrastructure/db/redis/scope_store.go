package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// ScopeStore is the persistence adapter for the current-project snapshot.
// Key format: scope:<session_id>
//
// Loading a missing key returns (nil, nil): an absent scope is a normal state,
// not an error.
type ScopeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScopeStore(client *redis.Client, ttl time.Duration) *ScopeStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ScopeStore{client: client, ttl: ttl}
}

func (s *ScopeStore) Load(ctx context.Context, sessionID string) (*domain.Project, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scope load: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("scope decode: %w", err)
	}
	return &p, nil
}

func (s *ScopeStore) Save(ctx context.Context, sessionID string, p *domain.Project) error {
	if p == nil {
		return s.Clear(ctx, sessionID)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("scope encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("scope save: %w", err)
	}
	return nil
}

func (s *ScopeStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("scope clear: %w", err)
	}
	return nil
}

func (s *ScopeStore) key(sessionID string) string {
	return "scope:" + sessionID
}
