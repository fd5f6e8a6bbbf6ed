package service

import (
	"context"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"
)

// indexSync зеркалирует изменения рецепта в обратные индексы пользователей.
// Рецепт к этому моменту уже сохранён, поэтому ошибка не откатывает запрос:
// расхождение чинит IndexReconciler
type indexSync struct {
	userRepo repository.UserRepository
}

func newIndexSync(userRepo repository.UserRepository) *indexSync {
	return &indexSync{userRepo: userRepo}
}

func (s *indexSync) add(ctx context.Context, link entity.RecipeLink) {
	if err := s.userRepo.AddLink(ctx, link); err != nil {
		s.fail(err, link, "add")
	}
}

func (s *indexSync) remove(ctx context.Context, link entity.RecipeLink) {
	if err := s.userRepo.RemoveLink(ctx, link); err != nil {
		s.fail(err, link, "remove")
	}
}

func (s *indexSync) removeRecipe(ctx context.Context, recipeID string) {
	if err := s.userRepo.RemoveRecipeLinks(ctx, recipeID); err != nil {
		metrics.IndexSyncFailures.WithLabelValues("recipe").Inc()
		logger.Warn().Err(err).Str("recipe_id", recipeID).Msg("Failed to drop recipe from user indexes")
	}
}

func (s *indexSync) fail(err error, link entity.RecipeLink, op string) {
	metrics.IndexSyncFailures.WithLabelValues(string(link.Kind)).Inc()
	logger.Warn().
		Err(err).
		Str("user_id", link.UserID).
		Str("recipe_id", link.RecipeID).
		Str("kind", string(link.Kind)).
		Str("operation", op).
		Msg("Failed to sync user recipe index")
}
