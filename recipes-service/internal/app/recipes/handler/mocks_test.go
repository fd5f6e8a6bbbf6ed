package handler

import (
	"context"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"

	"github.com/stretchr/testify/mock"
)

type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) AddComment(ctx context.Context, recipeID, callerID, content string) (*entity.CommentView, error) {
	args := m.Called(ctx, recipeID, callerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommentView), args.Error(1)
}

func (m *MockInteractionService) EditComment(ctx context.Context, recipeID, commentID, callerID, content string) (*entity.CommentView, error) {
	args := m.Called(ctx, recipeID, commentID, callerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommentView), args.Error(1)
}

func (m *MockInteractionService) DeleteComment(ctx context.Context, recipeID, commentID, callerID string) error {
	args := m.Called(ctx, recipeID, commentID, callerID)
	return args.Error(0)
}

func (m *MockInteractionService) AddReply(ctx context.Context, recipeID, commentID, callerID, content string) (*entity.ReplyView, error) {
	args := m.Called(ctx, recipeID, commentID, callerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReplyView), args.Error(1)
}

func (m *MockInteractionService) EditReply(ctx context.Context, recipeID, commentID, replyID, callerID, content string) (*entity.ReplyView, error) {
	args := m.Called(ctx, recipeID, commentID, replyID, callerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReplyView), args.Error(1)
}

func (m *MockInteractionService) DeleteReply(ctx context.Context, recipeID, commentID, replyID, callerID string) error {
	args := m.Called(ctx, recipeID, commentID, replyID, callerID)
	return args.Error(0)
}

func (m *MockInteractionService) ToggleLike(ctx context.Context, recipeID, callerID string) (*entity.LikeStatus, error) {
	args := m.Called(ctx, recipeID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeStatus), args.Error(1)
}

func (m *MockInteractionService) UpsertRating(ctx context.Context, recipeID, callerID string, score int) (*entity.RatingSummary, error) {
	args := m.Called(ctx, recipeID, callerID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

func (m *MockInteractionService) GetComments(ctx context.Context, recipeID string) ([]entity.CommentView, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CommentView), args.Error(1)
}

func (m *MockInteractionService) GetLikeStatus(ctx context.Context, recipeID, viewerID string) (*entity.LikeStatus, error) {
	args := m.Called(ctx, recipeID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeStatus), args.Error(1)
}

func (m *MockInteractionService) GetRatingSummary(ctx context.Context, recipeID, viewerID string) (*entity.RatingSummary, error) {
	args := m.Called(ctx, recipeID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RatingSummary), args.Error(1)
}

type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, callerID string, req *entity.CreateRecipeRequest) (*entity.RecipeView, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RecipeView), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, recipeID, viewerID string) (*entity.RecipeView, error) {
	args := m.Called(ctx, recipeID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RecipeView), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, filter entity.RecipeFilter, viewerID string) (*entity.RecipeListResponse, error) {
	args := m.Called(ctx, filter, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RecipeListResponse), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, recipeID, callerID string, req *entity.UpdateRecipeRequest) (*entity.RecipeView, error) {
	args := m.Called(ctx, recipeID, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RecipeView), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, recipeID, callerID string) error {
	args := m.Called(ctx, recipeID, callerID)
	return args.Error(0)
}

func (m *MockRecipeService) GetUserProfile(ctx context.Context, userID, viewerID string) (*entity.UserProfile, error) {
	args := m.Called(ctx, userID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockRecipeService) GetUserRecipes(ctx context.Context, userID, viewerID string) ([]entity.RecipeView, error) {
	args := m.Called(ctx, userID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RecipeView), args.Error(1)
}

func (m *MockRecipeService) GetLikedRecipes(ctx context.Context, userID, viewerID string) ([]entity.RecipeView, error) {
	args := m.Called(ctx, userID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RecipeView), args.Error(1)
}

func (m *MockRecipeService) GetOwnProfile(ctx context.Context, caller entity.Caller) (*entity.UserProfile, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockRecipeService) UpdateOwnProfile(ctx context.Context, caller entity.Caller, req *entity.UpdateProfileRequest) (*entity.UserProfile, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}
