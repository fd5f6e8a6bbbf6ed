package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"
)

// eventPublisher отправляет доменные события в Kafka после успешной записи.
// Ошибки только логируются: рецепт уже сохранён
type eventPublisher struct {
	producer infrastructure.MessagePublisher
}

func newEventPublisher(producer infrastructure.MessagePublisher) *eventPublisher {
	return &eventPublisher{producer: producer}
}

func (p *eventPublisher) publish(ctx context.Context, event entity.RecipeEvent) {
	if p.producer == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := p.send(ctx, event); err != nil {
		logger.Warn().
			Err(err).
			Str("event_type", string(event.EventType)).
			Str("recipe_id", event.RecipeID).
			Msg("Failed to publish recipe event")
	}
}

func (p *eventPublisher) send(ctx context.Context, event entity.RecipeEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe event: %w", err)
	}

	// Ключ = RecipeID, события одного рецепта идут по порядку
	if err := p.producer.PublishMessage(ctx, event.RecipeID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
