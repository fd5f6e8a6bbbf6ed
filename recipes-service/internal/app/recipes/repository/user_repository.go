package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	usersTable = "users"
	linksTable = "user_recipe_links"
)

// userRepository реализует UserRepository поверх PostgreSQL через GORM
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает репозиторий справочника пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, usersTable)

	var user entity.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			timer.ObserveDuration()
			return nil, ErrUserNotFound
		}
		timer.Done(result.Error)
		return nil, fmt.Errorf("failed to get user: %w", result.Error)
	}
	timer.ObserveDuration()

	return &user, nil
}

// GetByIDs загружает пользователей одним запросом. Отсутствующие ID
// просто не попадают в результат
func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, usersTable)

	var users []entity.User
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users)
	timer.Done(result.Error)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get users: %w", result.Error)
	}

	return users, nil
}

// Upsert создает профиль или обновляет имя, email, аватар и био существующего
func (r *userRepository) Upsert(ctx context.Context, user *entity.User) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, usersTable)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image", "bio", "updated_at"}),
		}).
		Create(user)
	timer.Done(result.Error)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert user: %w", result.Error)
	}

	return nil
}

// AddLink идемпотентно добавляет строку обратного индекса
func (r *userRepository) AddLink(ctx context.Context, link entity.RecipeLink) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, linksTable)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link)
	timer.Done(result.Error)
	if result.Error != nil {
		return fmt.Errorf("failed to add recipe link: %w", result.Error)
	}

	return nil
}

// RemoveLink удаляет строку индекса. Отсутствие строки ошибкой не считается
func (r *userRepository) RemoveLink(ctx context.Context, link entity.RecipeLink) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, linksTable)

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", link.UserID, link.RecipeID, link.Kind).
		Delete(&entity.RecipeLink{})
	timer.Done(result.Error)
	if result.Error != nil {
		return fmt.Errorf("failed to remove recipe link: %w", result.Error)
	}

	return nil
}

// RemoveRecipeLinks удаляет рецепт из индексов всех пользователей
func (r *userRepository) RemoveRecipeLinks(ctx context.Context, recipeID string) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, linksTable)

	result := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&entity.RecipeLink{})
	timer.Done(result.Error)
	if result.Error != nil {
		return fmt.Errorf("failed to remove recipe links: %w", result.Error)
	}

	return nil
}

// LinkedRecipeIDs возвращает ID рецептов пользователя, последние сверху
func (r *userRepository) LinkedRecipeIDs(ctx context.Context, userID string, kind entity.LinkKind) ([]string, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, linksTable)

	ids := []string{}
	result := r.db.WithContext(ctx).
		Model(&entity.RecipeLink{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at DESC").
		Pluck("recipe_id", &ids)
	timer.Done(result.Error)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get linked recipes: %w", result.Error)
	}

	return ids, nil
}

// ListLinks возвращает весь индекс указанного вида для реконсиляции
func (r *userRepository) ListLinks(ctx context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, linksTable)

	var links []entity.RecipeLink
	result := r.db.WithContext(ctx).Where("kind = ?", kind).Find(&links)
	timer.Done(result.Error)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list recipe links: %w", result.Error)
	}

	return links, nil
}
