package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/dataground/geochat/server/internal/core/error"
	"github.com/dataground/geochat/server/internal/dialog/model"
	logx "github.com/dataground/geochat/server/pkg/logger"
)

// RedisStore persists one JSON state document per user. Per-key mutation is
// serialized with in-process locks; the TTL is refreshed on every write so
// active dialogs stay alive while abandoned ones age out.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, locks: make(map[string]*sync.Mutex)}
}

func (s *RedisStore) stateKey(userID string) string {
	return fmt.Sprintf("dialog:%s:state", userID)
}

func (s *RedisStore) keyLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *RedisStore) load(ctx context.Context, userID string) (*model.ConversationState, error) {
	raw, err := s.rdb.Get(ctx, s.stateKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewConversationState(), nil
		}
		logx.Error().Err(err).Str("userID", userID).Msg("failed to load dialog state from redis")
		return nil, errx.WrapRedis(err)
	}

	var st model.ConversationState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to unmarshal dialog state")
		return nil, fmt.Errorf("unmarshal dialog state: %w", err)
	}
	if st.Params.Values == nil {
		st.Params = model.NewParamSet()
	}
	return &st, nil
}

func (s *RedisStore) save(ctx context.Context, userID string, st *model.ConversationState) error {
	b, err := json.Marshal(st)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to marshal dialog state")
		return fmt.Errorf("marshal dialog state: %w", err)
	}
	if err := s.rdb.Set(ctx, s.stateKey(userID), b, s.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", s.stateKey(userID)).Msg("failed to save dialog state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) Mutate(ctx context.Context, userID string, fn func(*model.ConversationState) error) error {
	l := s.keyLock(userID)
	l.Lock()
	defer l.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	return s.save(ctx, userID, st)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*model.ConversationState, error) {
	l := s.keyLock(userID)
	l.Lock()
	defer l.Unlock()
	return s.load(ctx, userID)
}

var _ StateStore = (*RedisStore)(nil)
