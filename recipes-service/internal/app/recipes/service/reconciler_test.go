package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDiffLinks(t *testing.T) {
	want := []entity.RecipeLink{
		{UserID: "u1", RecipeID: "r1", Kind: entity.LinkLiked},
		{UserID: "u2", RecipeID: "r1", Kind: entity.LinkLiked},
	}
	have := []entity.RecipeLink{
		{UserID: "u1", RecipeID: "r1", Kind: entity.LinkLiked},
		{UserID: "u3", RecipeID: "r9", Kind: entity.LinkLiked},
	}

	missing, stale := diffLinks(want, have)

	assert.Equal(t, []entity.RecipeLink{want[1]}, missing)
	assert.Equal(t, []entity.RecipeLink{have[1]}, stale)
}

func TestReconcile_RepairsDrift(t *testing.T) {
	ctx := context.Background()
	recipes := newMemoryRecipeRepo()
	users := newMemoryUserRepo()

	recipeID := seedRecipe(recipes, userA)
	recipe, _ := recipes.GetByID(ctx, recipeID)
	recipe.ToggleLike(userB)
	require.NoError(t, recipes.Replace(ctx, recipe, recipe.Version))

	// Индекс отстал: лайка нет, зато висит ссылка на удалённый рецепт
	stale := entity.RecipeLink{UserID: userC, RecipeID: "65f0c0ffee0000000000dead", Kind: entity.LinkLiked}
	require.NoError(t, users.AddLink(ctx, stale))

	report, err := NewIndexReconciler(recipes, users).Reconcile(ctx)

	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Added: 2, Removed: 1}, report)
	assert.True(t, users.hasLink(userB, recipeID, entity.LinkLiked))
	assert.True(t, users.hasLink(userA, recipeID, entity.LinkCreated))
	assert.False(t, users.hasLink(userC, stale.RecipeID, entity.LinkLiked))

	// Повторный проход ничего не меняет
	report, err = NewIndexReconciler(recipes, users).Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{}, report)
}

func TestReconcile_SourceError(t *testing.T) {
	ctx := context.Background()
	recipeRepo := new(mocks.MockRecipeRepository)
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("ListLinks", ctx, entity.LinkLiked).Return([]entity.RecipeLink{}, nil)
	recipeRepo.On("ListLinks", ctx, entity.LinkLiked).Return(nil, errors.New("mongo down"))

	_, err := NewIndexReconciler(recipeRepo, userRepo).Reconcile(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load liked links from recipes")
}

func TestReconcile_ContinuesAfterWriteFailure(t *testing.T) {
	ctx := context.Background()
	recipeRepo := new(mocks.MockRecipeRepository)
	userRepo := new(mocks.MockUserRepository)

	liked := []entity.RecipeLink{
		{UserID: "u1", RecipeID: "r1", Kind: entity.LinkLiked},
		{UserID: "u2", RecipeID: "r1", Kind: entity.LinkLiked},
	}
	recipeRepo.On("ListLinks", ctx, entity.LinkLiked).Return(liked, nil)
	recipeRepo.On("ListLinks", ctx, entity.LinkCreated).Return([]entity.RecipeLink{}, nil)
	userRepo.On("ListLinks", ctx, mock.Anything).Return([]entity.RecipeLink{}, nil)
	userRepo.On("AddLink", ctx, liked[0]).Return(errors.New("deadlock detected"))
	userRepo.On("AddLink", ctx, liked[1]).Return(nil)

	report, err := NewIndexReconciler(recipeRepo, userRepo).Reconcile(ctx)

	require.Error(t, err)
	assert.Equal(t, ReconcileReport{Added: 1, Failed: 1}, report)
	userRepo.AssertExpectations(t)
}

func TestReconcile_ReadsIndexBeforeRecipes(t *testing.T) {
	ctx := context.Background()
	recipeRepo := new(mocks.MockRecipeRepository)
	userRepo := new(mocks.MockUserRepository)

	// Лайк закоммичен и проиндексирован между двумя чтениями
	fresh := entity.RecipeLink{UserID: "u1", RecipeID: "r1", Kind: entity.LinkLiked}
	var order []string
	userRepo.On("ListLinks", ctx, entity.LinkLiked).
		Run(func(mock.Arguments) { order = append(order, "index") }).
		Return([]entity.RecipeLink{}, nil)
	recipeRepo.On("ListLinks", ctx, entity.LinkLiked).
		Run(func(mock.Arguments) { order = append(order, "recipes") }).
		Return([]entity.RecipeLink{fresh}, nil)
	userRepo.On("ListLinks", ctx, entity.LinkCreated).Return([]entity.RecipeLink{}, nil)
	recipeRepo.On("ListLinks", ctx, entity.LinkCreated).Return([]entity.RecipeLink{}, nil)
	userRepo.On("AddLink", ctx, fresh).Return(nil)

	report, err := NewIndexReconciler(recipeRepo, userRepo).Reconcile(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"index", "recipes"}, order)
	assert.Equal(t, ReconcileReport{Added: 1}, report)
	userRepo.AssertNotCalled(t, "RemoveLink", mock.Anything, mock.Anything)
}
