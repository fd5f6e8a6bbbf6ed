package service

import (
	"context"
	"fmt"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"
)

// ReconcileReport - сколько строк индекса добавлено и удалено за проход
type ReconcileReport struct {
	Added   int
	Removed int
	Failed  int
}

// IndexReconciler приводит обратные индексы пользователей (PostgreSQL)
// в соответствие с документами рецептов (MongoDB)
type IndexReconciler struct {
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
}

func NewIndexReconciler(recipeRepo repository.RecipeRepository, userRepo repository.UserRepository) *IndexReconciler {
	return &IndexReconciler{recipeRepo: recipeRepo, userRepo: userRepo}
}

// Reconcile сверяет оба вида индекса. Отдельные сбои записи не прерывают проход
func (r *IndexReconciler) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var total ReconcileReport

	for _, kind := range []entity.LinkKind{entity.LinkLiked, entity.LinkCreated} {
		report, err := r.reconcileKind(ctx, kind)
		total.Added += report.Added
		total.Removed += report.Removed
		total.Failed += report.Failed
		if err != nil {
			return total, err
		}
	}

	if total.Failed > 0 {
		return total, fmt.Errorf("failed to repair %d index rows", total.Failed)
	}

	logger.Info().
		Int("added", total.Added).
		Int("removed", total.Removed).
		Msg("User recipe indexes reconciled")

	return total, nil
}

func (r *IndexReconciler) reconcileKind(ctx context.Context, kind entity.LinkKind) (ReconcileReport, error) {
	var report ReconcileReport

	// Индекс читается раньше рецептов, поэтому снимок рецептов не старше снимка индекса
	have, err := r.userRepo.ListLinks(ctx, kind)
	if err != nil {
		return report, fmt.Errorf("failed to load %s links from index: %w", kind, err)
	}
	want, err := r.recipeRepo.ListLinks(ctx, kind)
	if err != nil {
		return report, fmt.Errorf("failed to load %s links from recipes: %w", kind, err)
	}

	missing, stale := diffLinks(want, have)

	for _, link := range missing {
		if err := r.userRepo.AddLink(ctx, link); err != nil {
			report.Failed++
			logger.Error().Err(err).Str("user_id", link.UserID).Str("recipe_id", link.RecipeID).Msg("Failed to add missing index row")
			continue
		}
		report.Added++
		metrics.IndexRepairs.WithLabelValues(string(kind), "added").Inc()
	}

	for _, link := range stale {
		if err := r.userRepo.RemoveLink(ctx, link); err != nil {
			report.Failed++
			logger.Error().Err(err).Str("user_id", link.UserID).Str("recipe_id", link.RecipeID).Msg("Failed to remove stale index row")
			continue
		}
		report.Removed++
		metrics.IndexRepairs.WithLabelValues(string(kind), "removed").Inc()
	}

	return report, nil
}

type linkKey struct {
	userID   string
	recipeID string
}

// diffLinks возвращает строки, которых нет в индексе, и строки,
// которым больше не соответствует ни один рецепт
func diffLinks(want, have []entity.RecipeLink) (missing, stale []entity.RecipeLink) {
	present := make(map[linkKey]struct{}, len(have))
	for _, link := range have {
		present[linkKey{link.UserID, link.RecipeID}] = struct{}{}
	}

	expected := make(map[linkKey]struct{}, len(want))
	for _, link := range want {
		key := linkKey{link.UserID, link.RecipeID}
		expected[key] = struct{}{}
		if _, ok := present[key]; !ok {
			missing = append(missing, link)
		}
	}

	for _, link := range have {
		if _, ok := expected[linkKey{link.UserID, link.RecipeID}]; !ok {
			stale = append(stale, link)
		}
	}

	return missing, stale
}
