package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"
)

// RecipeService обрабатывает публикацию рецептов, поиск и профили пользователей
type RecipeService struct {
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	writer     *recipeWriter
	projector  *projector
	index      *indexSync
	events     *eventPublisher
}

// NewRecipeService создает новый сервис рецептов с внедрением зависимостей
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	kafkaProducer infrastructure.MessagePublisher,
	opts WriteOptions,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		writer:     newRecipeWriter(recipeRepo, opts),
		projector:  newProjector(userRepo),
		index:      newIndexSync(userRepo),
		events:     newEventPublisher(kafkaProducer),
	}
}

// CreateRecipe публикует рецепт от имени callerID
// 1. Сохраняет документ в MongoDB
// 2. Добавляет рецепт в индекс created автора
// 3. Отправляет событие RECIPE_CREATED в Kafka
func (s *RecipeService) CreateRecipe(ctx context.Context, callerID string, req *entity.CreateRecipeRequest) (*entity.RecipeView, error) {
	if err := Authorize(callerID, Resource{Kind: ResourceRecipe}, ActionCreate); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if err := requireText(title, description); err != nil {
		return nil, err
	}

	recipe := &entity.Recipe{
		Title:        title,
		Description:  description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookingTime:  req.CookingTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Categories:   req.Categories,
		Images:       req.Images,
		IsAnonymous:  req.IsAnonymous,
		AuthorID:     callerID,
	}

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.index.add(ctx, entity.RecipeLink{UserID: callerID, RecipeID: recipe.ID.Hex(), Kind: entity.LinkCreated})
	metrics.RecipesCreated.Inc()
	s.publish(ctx, entity.EventRecipeCreated, recipe, callerID)

	views, err := s.projector.Recipes(ctx, []entity.Recipe{*recipe}, callerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetRecipe возвращает рецепт с комментариями, автор маскируется для анонимных рецептов
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID, viewerID string) (*entity.RecipeView, error) {
	recipe, err := s.writer.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.projector.RecipeDetail(ctx, recipe, viewerID)
}

// ListRecipes выполняет поиск с фильтрами и пагинацией
func (s *RecipeService) ListRecipes(ctx context.Context, filter entity.RecipeFilter, viewerID string) (*entity.RecipeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = entity.DefaultPageSize
	}

	recipes, total, err := s.recipeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	views, err := s.projector.Recipes(ctx, recipes, viewerID)
	if err != nil {
		return nil, err
	}

	limit := int64(filter.Limit)
	return &entity.RecipeListResponse{
		Recipes: views,
		Pagination: entity.Pagination{
			Total:   total,
			Pages:   (total + limit - 1) / limit,
			Current: filter.Page,
		},
	}, nil
}

// UpdateRecipe меняет переданные поля. Автор, лайки, комментарии и оценки не трогаются
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, callerID string, req *entity.UpdateRecipeRequest) (*entity.RecipeView, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, invalidInput("title is required")
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return nil, invalidInput("description is required")
	}

	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		if err := Authorize(callerID, Resource{Kind: ResourceRecipe, OwnerID: r.AuthorID}, ActionEdit); err != nil {
			return err
		}
		applyRecipeUpdate(r, req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entity.EventRecipeUpdated, recipe, callerID)

	views, err := s.projector.Recipes(ctx, []entity.Recipe{*recipe}, callerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeleteRecipe удаляет рецепт и убирает его из индексов всех пользователей
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, callerID string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}

	recipe, err := s.writer.load(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := Authorize(callerID, Resource{Kind: ResourceRecipe, OwnerID: recipe.AuthorID}, ActionDelete); err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.index.removeRecipe(ctx, recipe.ID.Hex())
	s.publish(ctx, entity.EventRecipeDeleted, recipe, callerID)

	return nil
}

// GetUserProfile возвращает публичный профиль с созданными и понравившимися рецептами.
// Email виден только владельцу профиля
func (s *RecipeService) GetUserProfile(ctx context.Context, userID, viewerID string) (*entity.UserProfile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.linkedRecipes(ctx, userID, entity.LinkCreated, viewerID)
	if err != nil {
		return nil, err
	}
	liked, err := s.linkedRecipes(ctx, userID, entity.LinkLiked, viewerID)
	if err != nil {
		return nil, err
	}

	return buildProfile(user, viewerID, created, liked), nil
}

// GetUserRecipes возвращает рецепты пользователя. Анонимные рецепты видит только автор
func (s *RecipeService) GetUserRecipes(ctx context.Context, userID, viewerID string) ([]entity.RecipeView, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.linkedRecipes(ctx, userID, entity.LinkCreated, viewerID)
}

func (s *RecipeService) GetLikedRecipes(ctx context.Context, userID, viewerID string) ([]entity.RecipeView, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.linkedRecipes(ctx, userID, entity.LinkLiked, viewerID)
}

// GetOwnProfile возвращает профиль вызывающего. При первом обращении
// запись справочника создаётся из данных токена
func (s *RecipeService) GetOwnProfile(ctx context.Context, caller entity.Caller) (*entity.UserProfile, error) {
	if err := requireCaller(caller.ID); err != nil {
		return nil, err
	}

	_, err := s.getUser(ctx, caller.ID)
	if errors.Is(err, ErrUserNotFound) {
		user := &entity.User{ID: caller.ID, Name: caller.Name, Email: caller.Email}
		if err := s.userRepo.Upsert(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user profile: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	return s.GetUserProfile(ctx, caller.ID, caller.ID)
}

// UpdateOwnProfile обновляет имя, аватар и био вызывающего
func (s *RecipeService) UpdateOwnProfile(ctx context.Context, caller entity.Caller, req *entity.UpdateProfileRequest) (*entity.UserProfile, error) {
	if err := Authorize(caller.ID, Resource{Kind: ResourceProfile, OwnerID: caller.ID}, ActionEdit); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("name is required")
	}

	user := &entity.User{
		ID:    caller.ID,
		Name:  name,
		Email: caller.Email,
		Image: strings.TrimSpace(req.Image),
		Bio:   strings.TrimSpace(req.Bio),
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	return s.GetUserProfile(ctx, caller.ID, caller.ID)
}

func (s *RecipeService) getUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// linkedRecipes читает обратный индекс пользователя и проецирует рецепты.
// Ссылки на удалённые рецепты просто не находятся
func (s *RecipeService) linkedRecipes(ctx context.Context, userID string, kind entity.LinkKind, viewerID string) ([]entity.RecipeView, error) {
	ids, err := s.userRepo.LinkedRecipeIDs(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get user recipes: %w", err)
	}

	recipes, err := s.recipeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get user recipes: %w", err)
	}

	if kind == entity.LinkCreated && viewerID != userID {
		visible := recipes[:0]
		for _, recipe := range recipes {
			if !recipe.IsAnonymous {
				visible = append(visible, recipe)
			}
		}
		recipes = visible
	}

	return s.projector.Recipes(ctx, recipes, viewerID)
}

func (s *RecipeService) publish(ctx context.Context, eventType entity.EventType, recipe *entity.Recipe, actorID string) {
	s.events.publish(ctx, entity.RecipeEvent{
		EventType: eventType,
		RecipeID:  recipe.ID.Hex(),
		ActorID:   actorID,
		Version:   recipe.Version,
	})
}

// requireText проверяет, что заголовок и описание не пусты после обрезки пробелов
func requireText(title, description string) error {
	if title == "" {
		return invalidInput("title is required")
	}
	if description == "" {
		return invalidInput("description is required")
	}
	return nil
}

func applyRecipeUpdate(recipe *entity.Recipe, req *entity.UpdateRecipeRequest) {
	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		recipe.Description = strings.TrimSpace(*req.Description)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = *req.Ingredients
	}
	if req.Instructions != nil {
		recipe.Instructions = *req.Instructions
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.Difficulty != nil {
		recipe.Difficulty = *req.Difficulty
	}
	if req.Categories != nil {
		recipe.Categories = *req.Categories
	}
	if req.Images != nil {
		recipe.Images = *req.Images
	}
	if req.IsAnonymous != nil {
		recipe.IsAnonymous = *req.IsAnonymous
	}
}

func buildProfile(user *entity.User, viewerID string, created, liked []entity.RecipeView) *entity.UserProfile {
	profile := &entity.UserProfile{
		ID:             user.ID,
		Name:           user.Name,
		Image:          user.Image,
		Bio:            user.Bio,
		CreatedAt:      user.CreatedAt,
		CreatedRecipes: created,
		LikedRecipes:   liked,
	}
	if viewerID == user.ID {
		profile.Email = user.Email
	}
	return profile
}
