package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore holds in-progress drafts between requests
type DraftStore interface {
	Save(ctx context.Context, draft *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

// ErrDraftNotFound returned when a draft id is unknown or expired
var ErrDraftNotFound = fmt.Errorf("draft not found")

const draftKeyPrefix = "mtto:po-draft:"

// RedisDraftStore draft store backed by redis with a TTL per draft
type RedisDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDraftStore(rdb *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDraftStore{rdb: rdb, ttl: ttl}
}

func (s *RedisDraftStore) Save(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.rdb.Set(ctx, draftKeyPrefix+draft.ID, data, s.ttl).Err()
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := s.rdb.Get(ctx, draftKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, draftKeyPrefix+id).Err()
}

// MemoryDraftStore in-process draft store used when redis is not configured
// (single-node deployments) and in tests
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]*Draft)}
}

func (s *MemoryDraftStore) Save(_ context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	var snapshot Draft
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshal draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = &snapshot
	return nil
}

func (s *MemoryDraftStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}
