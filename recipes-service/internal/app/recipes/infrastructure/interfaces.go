package infrastructure

import (
	"context"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
)

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ReservationState - результат попытки занять Idempotency-Key
type ReservationState int

const (
	// KeyReserved - ключ свободен и закреплён за текущим запросом
	KeyReserved ReservationState = iota
	// KeyInProgress - запрос с тем же ключом ещё выполняется
	KeyInProgress
	// KeyCompleted - запрос уже выполнен, есть сохранённый ответ
	KeyCompleted
)

// IdempotencyStore хранит ответы на мутирующие запросы по Idempotency-Key
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (ReservationState, *entity.StoredResponse, error)
	Complete(ctx context.Context, key string, response entity.StoredResponse) error
	Release(ctx context.Context, key string) error
}
