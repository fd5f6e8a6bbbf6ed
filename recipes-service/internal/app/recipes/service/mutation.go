package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"
)

const (
	DefaultMaxWriteAttempts = 5
	DefaultRetryBackoff     = 20 * time.Millisecond
)

// WriteOptions - параметры повторов при конфликте версий
type WriteOptions struct {
	MaxWriteAttempts int
	RetryBackoff     time.Duration
}

func (o WriteOptions) withDefaults() WriteOptions {
	if o.MaxWriteAttempts < 1 {
		o.MaxWriteAttempts = DefaultMaxWriteAttempts
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}
	return o
}

// mutateFunc меняет загруженный агрегат. Вызывается заново на каждой попытке,
// поэтому все проверки (существование узлов, владение) должны быть внутри
type mutateFunc func(recipe *entity.Recipe) error

// recipeWriter применяет мутации к рецепту по схеме load -> mutate -> CAS replace
type recipeWriter struct {
	recipeRepo repository.RecipeRepository
	opts       WriteOptions
}

func newRecipeWriter(recipeRepo repository.RecipeRepository, opts WriteOptions) *recipeWriter {
	return &recipeWriter{recipeRepo: recipeRepo, opts: opts.withDefaults()}
}

// load загружает рецепт и переводит ошибки репозитория в ошибки сервиса
func (w *recipeWriter) load(ctx context.Context, recipeID string) (*entity.Recipe, error) {
	recipe, err := w.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

// apply сохраняет результат mutate только если версия документа не изменилась
// с момента чтения. При конфликте перечитывает документ и повторяет мутацию
// до MaxWriteAttempts раз, после чего возвращает ErrConflict
func (w *recipeWriter) apply(ctx context.Context, recipeID string, mutate mutateFunc) (*entity.Recipe, error) {
	for attempt := 1; attempt <= w.opts.MaxWriteAttempts; attempt++ {
		recipe, err := w.load(ctx, recipeID)
		if err != nil {
			return nil, err
		}

		expected := recipe.Version
		if err := mutate(recipe); err != nil {
			return nil, err
		}

		err = w.recipeRepo.Replace(ctx, recipe, expected)
		if err == nil {
			return recipe, nil
		}

		switch {
		case errors.Is(err, repository.ErrRecipeNotFound):
			return nil, ErrRecipeNotFound
		case errors.Is(err, repository.ErrVersionConflict):
			metrics.WriteConflicts.WithLabelValues("retried").Inc()
			logger.Debug().
				Str("recipe_id", recipeID).
				Int("attempt", attempt).
				Int64("version", expected).
				Msg("Recipe version conflict, retrying")

			if attempt < w.opts.MaxWriteAttempts {
				if err := w.wait(ctx, attempt); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("failed to save recipe: %w", err)
		}
	}

	metrics.WriteConflicts.WithLabelValues("exhausted").Inc()
	logger.Warn().
		Str("recipe_id", recipeID).
		Int("attempts", w.opts.MaxWriteAttempts).
		Msg("Recipe write attempts exhausted")

	return nil, ErrConflict
}

// wait делает линейную паузу с джиттером, чтобы конкурирующие запросы разошлись
func (w *recipeWriter) wait(ctx context.Context, attempt int) error {
	base := w.opts.RetryBackoff * time.Duration(attempt)
	delay := base/2 + rand.N(base/2+1)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
