package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName   = "recipes-service"
	keyPrefix     = "idempotency:"
	pendingMarker = "pending"
)

// idempotencyStore реализует IdempotencyStore поверх Redis
type idempotencyStore struct {
	client     *redis.Client
	ttl        time.Duration // Сколько хранится готовый ответ
	pendingTTL time.Duration // Сколько живёт резерв, если обработчик упал
}

// NewIdempotencyStore создает хранилище ответов по Idempotency-Key
func NewIdempotencyStore(client *redis.Client, ttl, pendingTTL time.Duration) infrastructure.IdempotencyStore {
	return &idempotencyStore{
		client:     client,
		ttl:        ttl,
		pendingTTL: pendingTTL,
	}
}

// Reserve атомарно занимает ключ через SETNX. Если ключ уже занят,
// возвращает либо KeyInProgress, либо сохранённый ответ
func (s *idempotencyStore) Reserve(ctx context.Context, key string) (infrastructure.ReservationState, *entity.StoredResponse, error) {
	redisKey := keyPrefix + key

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSetNX)
	ok, err := s.client.SetNX(ctx, redisKey, pendingMarker, s.pendingTTL).Result()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSetNX)
		return infrastructure.KeyReserved, nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return infrastructure.KeyReserved, nil, nil
	}

	timer = metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	data, err := s.client.Get(ctx, redisKey).Result()
	timer.ObserveDuration()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Резерв истёк между SETNX и GET - считаем, что запрос ещё идёт
			return infrastructure.KeyInProgress, nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return infrastructure.KeyReserved, nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	if data == pendingMarker {
		return infrastructure.KeyInProgress, nil, nil
	}

	var stored entity.StoredResponse
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return infrastructure.KeyReserved, nil, fmt.Errorf("failed to unmarshal stored response: %w", err)
	}

	return infrastructure.KeyCompleted, &stored, nil
}

// Complete сохраняет ответ вместо резерва на ttl
func (s *idempotencyStore) Complete(ctx context.Context, key string, response entity.StoredResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal stored response: %w", err)
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	err = s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}

	return nil
}

// Release снимает резерв, чтобы клиент мог повторить запрос
func (s *idempotencyStore) Release(ctx context.Context, key string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	err := s.client.Del(ctx, keyPrefix+key).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}

	return nil
}
