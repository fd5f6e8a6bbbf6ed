package repository

import (
	"context"
	"errors"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrVersionConflict = errors.New("recipe version conflict")
	ErrUserNotFound    = errors.New("user not found")
)

// RecipeRepository определяет методы для работы с агрегатом рецепта в MongoDB
type RecipeRepository interface {
	Create(ctx context.Context, recipe *entity.Recipe) error
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	// Replace перезаписывает документ целиком, только если в БД всё ещё
	// лежит expectedVersion. При успехе recipe.Version = expectedVersion+1
	Replace(ctx context.Context, recipe *entity.Recipe, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.RecipeFilter) ([]entity.Recipe, int64, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Recipe, error)
	// ListLinks строит пары (пользователь, рецепт) из документов рецептов -
	// эталон для реконсиляции обратных индексов
	ListLinks(ctx context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error)
}

// UserRepository - справочник пользователей и их обратные индексы в PostgreSQL
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	Upsert(ctx context.Context, user *entity.User) error
	AddLink(ctx context.Context, link entity.RecipeLink) error
	RemoveLink(ctx context.Context, link entity.RecipeLink) error
	RemoveRecipeLinks(ctx context.Context, recipeID string) error
	LinkedRecipeIDs(ctx context.Context, userID string, kind entity.LinkKind) ([]string, error)
	ListLinks(ctx context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error)
}
