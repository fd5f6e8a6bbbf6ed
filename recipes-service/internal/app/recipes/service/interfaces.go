package service

import (
	"context"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
)

type InteractionServiceInterface interface {
	AddComment(ctx context.Context, recipeID, callerID, content string) (*entity.CommentView, error)
	EditComment(ctx context.Context, recipeID, commentID, callerID, content string) (*entity.CommentView, error)
	DeleteComment(ctx context.Context, recipeID, commentID, callerID string) error
	AddReply(ctx context.Context, recipeID, commentID, callerID, content string) (*entity.ReplyView, error)
	EditReply(ctx context.Context, recipeID, commentID, replyID, callerID, content string) (*entity.ReplyView, error)
	DeleteReply(ctx context.Context, recipeID, commentID, replyID, callerID string) error
	ToggleLike(ctx context.Context, recipeID, callerID string) (*entity.LikeStatus, error)
	UpsertRating(ctx context.Context, recipeID, callerID string, score int) (*entity.RatingSummary, error)
	GetComments(ctx context.Context, recipeID string) ([]entity.CommentView, error)
	GetLikeStatus(ctx context.Context, recipeID, viewerID string) (*entity.LikeStatus, error)
	GetRatingSummary(ctx context.Context, recipeID, viewerID string) (*entity.RatingSummary, error)
}

type RecipeServiceInterface interface {
	CreateRecipe(ctx context.Context, callerID string, req *entity.CreateRecipeRequest) (*entity.RecipeView, error)
	GetRecipe(ctx context.Context, recipeID, viewerID string) (*entity.RecipeView, error)
	ListRecipes(ctx context.Context, filter entity.RecipeFilter, viewerID string) (*entity.RecipeListResponse, error)
	UpdateRecipe(ctx context.Context, recipeID, callerID string, req *entity.UpdateRecipeRequest) (*entity.RecipeView, error)
	DeleteRecipe(ctx context.Context, recipeID, callerID string) error
	GetUserProfile(ctx context.Context, userID, viewerID string) (*entity.UserProfile, error)
	GetUserRecipes(ctx context.Context, userID, viewerID string) ([]entity.RecipeView, error)
	GetLikedRecipes(ctx context.Context, userID, viewerID string) ([]entity.RecipeView, error)
	GetOwnProfile(ctx context.Context, caller entity.Caller) (*entity.UserProfile, error)
	UpdateOwnProfile(ctx context.Context, caller entity.Caller, req *entity.UpdateProfileRequest) (*entity.UserProfile, error)
}

// Reconciler - задача сверки индексов для планировщика
type Reconciler interface {
	Reconcile(ctx context.Context) (ReconcileReport, error)
}

var (
	_ InteractionServiceInterface = (*InteractionService)(nil)
	_ RecipeServiceInterface      = (*RecipeService)(nil)
	_ Reconciler                  = (*IndexReconciler)(nil)
)
