package cache

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// IdempotencyStoreTestSuite тестовый suite для Redis хранилища ключей
type IdempotencyStoreTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	store     infrastructure.IdempotencyStore
}

func TestIdempotencyStoreSuite(t *testing.T) {
	suite.Run(t, new(IdempotencyStoreTestSuite))
}

func (s *IdempotencyStoreTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.store = NewIdempotencyStore(s.client, time.Hour, 30*time.Second)
}

func (s *IdempotencyStoreTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *IdempotencyStoreTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *IdempotencyStoreTestSuite) TestReserve_FreeKey() {
	state, stored, err := s.store.Reserve(context.Background(), "user-1:like:abc")

	s.NoError(err)
	s.Equal(infrastructure.KeyReserved, state)
	s.Nil(stored)

	value, err := s.miniRedis.Get("idempotency:user-1:like:abc")
	s.NoError(err)
	s.Equal(pendingMarker, value)
}

func (s *IdempotencyStoreTestSuite) TestReserve_ConcurrentDuplicateIsInProgress() {
	ctx := context.Background()

	_, _, err := s.store.Reserve(ctx, "k")
	s.NoError(err)

	state, stored, err := s.store.Reserve(ctx, "k")

	s.NoError(err)
	s.Equal(infrastructure.KeyInProgress, state)
	s.Nil(stored)
}

func (s *IdempotencyStoreTestSuite) TestComplete_ReplaysStoredResponse() {
	ctx := context.Background()
	response := entity.StoredResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json; charset=utf-8",
		Body:        []byte(`{"likes":1,"has_liked":true}`),
	}

	_, _, err := s.store.Reserve(ctx, "k")
	s.NoError(err)
	s.NoError(s.store.Complete(ctx, "k", response))

	state, stored, err := s.store.Reserve(ctx, "k")

	s.NoError(err)
	s.Equal(infrastructure.KeyCompleted, state)
	s.Require().NotNil(stored)
	s.Equal(response, *stored)
	s.Equal(time.Hour, s.miniRedis.TTL("idempotency:k"))
}

func (s *IdempotencyStoreTestSuite) TestRelease_AllowsRetry() {
	ctx := context.Background()

	_, _, err := s.store.Reserve(ctx, "k")
	s.NoError(err)
	s.NoError(s.store.Release(ctx, "k"))

	state, _, err := s.store.Reserve(ctx, "k")
	s.NoError(err)
	s.Equal(infrastructure.KeyReserved, state)
}

func (s *IdempotencyStoreTestSuite) TestReserve_PendingExpires() {
	ctx := context.Background()

	_, _, err := s.store.Reserve(ctx, "k")
	s.NoError(err)

	s.miniRedis.FastForward(31 * time.Second)

	state, _, err := s.store.Reserve(ctx, "k")
	s.NoError(err)
	s.Equal(infrastructure.KeyReserved, state)
}

func (s *IdempotencyStoreTestSuite) TestReserve_RedisDown() {
	s.miniRedis.SetError("LOADING")
	defer s.miniRedis.SetError("")

	_, _, err := s.store.Reserve(context.Background(), "k")

	s.Error(err)
	s.Contains(err.Error(), "failed to reserve idempotency key")
}
