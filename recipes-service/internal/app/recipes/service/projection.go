package service

import (
	"context"
	"fmt"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"
)

// projector собирает ответы API из агрегатов. Пользователи подгружаются
// одним запросом на всю проекцию
type projector struct {
	userRepo repository.UserRepository
}

func newProjector(userRepo repository.UserRepository) *projector {
	return &projector{userRepo: userRepo}
}

// directory - результат батч-загрузки пользователей по ID
type directory map[string]entity.AuthorView

func (d directory) lookup(userID string) entity.AuthorView {
	if view, ok := d[userID]; ok {
		return view
	}
	return entity.AuthorView{ID: userID, Name: entity.UnknownUserName}
}

func (p *projector) loadDirectory(ctx context.Context, ids map[string]struct{}) (directory, error) {
	dir := directory{}
	if len(ids) == 0 {
		return dir, nil
	}

	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}

	users, err := p.userRepo.GetByIDs(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	for _, user := range users {
		dir[user.ID] = entity.AuthorView{ID: user.ID, Name: user.Name, Image: user.Image}
	}

	return dir, nil
}

// authorView применяет маску анонимности: чужой анонимный рецепт
// показывается без ID и аватара автора
func authorView(recipe *entity.Recipe, dir directory, viewerID string) entity.AuthorView {
	if recipe.IsAnonymous && viewerID != recipe.AuthorID {
		return entity.AuthorView{Name: entity.AnonymousAuthorName}
	}
	return dir.lookup(recipe.AuthorID)
}

func recipeAuthors(recipes []entity.Recipe, viewerID string) map[string]struct{} {
	ids := make(map[string]struct{}, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		if r.IsAnonymous && viewerID != r.AuthorID {
			continue
		}
		ids[r.AuthorID] = struct{}{}
	}
	return ids
}

func commentUsers(comments []entity.Comment, ids map[string]struct{}) {
	for _, comment := range comments {
		ids[comment.UserID] = struct{}{}
		for _, reply := range comment.Replies {
			ids[reply.UserID] = struct{}{}
		}
	}
}

// Recipes проецирует список рецептов для просмотра viewerID
func (p *projector) Recipes(ctx context.Context, recipes []entity.Recipe, viewerID string) ([]entity.RecipeView, error) {
	dir, err := p.loadDirectory(ctx, recipeAuthors(recipes, viewerID))
	if err != nil {
		return nil, err
	}

	views := make([]entity.RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, buildRecipeView(&recipes[i], dir, viewerID))
	}
	return views, nil
}

// RecipeDetail проецирует рецепт вместе с комментариями
func (p *projector) RecipeDetail(ctx context.Context, recipe *entity.Recipe, viewerID string) (*entity.RecipeView, error) {
	ids := recipeAuthors([]entity.Recipe{*recipe}, viewerID)
	commentUsers(recipe.Comments, ids)

	dir, err := p.loadDirectory(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := buildRecipeView(recipe, dir, viewerID)
	view.Comments = buildCommentViews(recipe.Comments, dir)
	return &view, nil
}

// Comments проецирует комментарии с ответами в порядке добавления
func (p *projector) Comments(ctx context.Context, comments []entity.Comment) ([]entity.CommentView, error) {
	ids := map[string]struct{}{}
	commentUsers(comments, ids)

	dir, err := p.loadDirectory(ctx, ids)
	if err != nil {
		return nil, err
	}

	return buildCommentViews(comments, dir), nil
}

// Comment проецирует только что записанный комментарий. Запись уже
// состоялась, поэтому сбой справочника не превращается в ошибку запроса
func (p *projector) Comment(ctx context.Context, comment entity.Comment) entity.CommentView {
	ids := map[string]struct{}{}
	commentUsers([]entity.Comment{comment}, ids)
	return buildCommentViews([]entity.Comment{comment}, p.directoryAfterWrite(ctx, ids))[0]
}

func (p *projector) Reply(ctx context.Context, reply entity.Reply) entity.ReplyView {
	return buildReplyView(reply, p.directoryAfterWrite(ctx, map[string]struct{}{reply.UserID: {}}))
}

func (p *projector) directoryAfterWrite(ctx context.Context, ids map[string]struct{}) directory {
	dir, err := p.loadDirectory(ctx, ids)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to expand users after write")
		return directory{}
	}
	return dir
}

func buildRecipeView(recipe *entity.Recipe, dir directory, viewerID string) entity.RecipeView {
	likes := recipe.LikeStatus(viewerID)
	rating := recipe.RatingSummary(viewerID)

	return entity.RecipeView{
		ID:            recipe.ID.Hex(),
		Title:         recipe.Title,
		Description:   recipe.Description,
		Ingredients:   recipe.Ingredients,
		Instructions:  recipe.Instructions,
		CookingTime:   recipe.CookingTime,
		Servings:      recipe.Servings,
		Difficulty:    recipe.Difficulty,
		Categories:    recipe.Categories,
		Images:        recipe.Images,
		IsAnonymous:   recipe.IsAnonymous,
		Author:        authorView(recipe, dir, viewerID),
		Likes:         likes.Likes,
		HasLiked:      likes.HasLiked,
		CommentsCount: len(recipe.Comments),
		AverageRating: rating.AverageRating,
		TotalRatings:  rating.TotalRatings,
		UserRating:    rating.UserRating,
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
	}
}

func buildCommentViews(comments []entity.Comment, dir directory) []entity.CommentView {
	views := make([]entity.CommentView, 0, len(comments))
	for _, comment := range comments {
		replies := make([]entity.ReplyView, 0, len(comment.Replies))
		for _, reply := range comment.Replies {
			replies = append(replies, buildReplyView(reply, dir))
		}

		views = append(views, entity.CommentView{
			ID:        comment.ID.Hex(),
			User:      dir.lookup(comment.UserID),
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
			UpdatedAt: comment.UpdatedAt,
			Replies:   replies,
		})
	}
	return views
}

func buildReplyView(reply entity.Reply, dir directory) entity.ReplyView {
	return entity.ReplyView{
		ID:        reply.ID.Hex(),
		User:      dir.lookup(reply.UserID),
		Content:   reply.Content,
		CreatedAt: reply.CreatedAt,
		UpdatedAt: reply.UpdatedAt,
	}
}
