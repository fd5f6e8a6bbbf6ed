package entity

import (
	"time"
)

const (
	AnonymousAuthorName = "Anonymous User"
	UnknownUserName     = "Unknown User"
	DefaultPageSize     = 10
)

// Caller - пользователь из проверенного JWT. Пустой ID означает анонимный запрос
type Caller struct {
	ID    string
	Name  string
	Email string
}

// CreateRecipeRequest - запрос на публикацию рецепта
type CreateRecipeRequest struct {
	Title        string       `json:"title" validate:"required,max=200"`
	Description  string       `json:"description" validate:"required,max=5000"`
	Ingredients  []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string     `json:"instructions" validate:"required,min=1,dive,required"`
	CookingTime  int          `json:"cooking_time" validate:"required,gt=0"`
	Servings     int          `json:"servings" validate:"required,gt=0"`
	Difficulty   Difficulty   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Categories   []string     `json:"categories" validate:"omitempty,dive,required,max=50"`
	Images       []string     `json:"images" validate:"omitempty,dive,url"`
	IsAnonymous  bool         `json:"is_anonymous"`
}

// UpdateRecipeRequest - частичное обновление рецепта, nil поля не меняются
type UpdateRecipeRequest struct {
	Title        *string       `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string       `json:"description" validate:"omitempty,min=1,max=5000"`
	Ingredients  *[]Ingredient `json:"ingredients" validate:"omitempty,min=1,dive"`
	Instructions *[]string     `json:"instructions" validate:"omitempty,min=1,dive,required"`
	CookingTime  *int          `json:"cooking_time" validate:"omitempty,gt=0"`
	Servings     *int          `json:"servings" validate:"omitempty,gt=0"`
	Difficulty   *Difficulty   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Categories   *[]string     `json:"categories" validate:"omitempty,dive,required,max=50"`
	Images       *[]string     `json:"images" validate:"omitempty,dive,url"`
	IsAnonymous  *bool         `json:"is_anonymous"`
}

// ContentRequest - тело запроса для комментариев и ответов
type ContentRequest struct {
	Content string `json:"content"`
}

// RatingRequest - оценка рецепта, диапазон проверяется в сервисе
type RatingRequest struct {
	Score int `json:"score"`
}

// UpdateProfileRequest - обновление собственного профиля
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Image string `json:"image" validate:"omitempty,url"`
	Bio   string `json:"bio" validate:"max=1000"`
}

// RecipeFilter - параметры поиска по рецептам
type RecipeFilter struct {
	Query      string
	Category   string
	Difficulty Difficulty
	Page       int
	Limit      int
}

// AuthorView - автор в ответах API. Для анонимных рецептов
// заполняется только Name
type AuthorView struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type RecipeView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Ingredients   []Ingredient  `json:"ingredients"`
	Instructions  []string      `json:"instructions"`
	CookingTime   int           `json:"cooking_time"`
	Servings      int           `json:"servings"`
	Difficulty    Difficulty    `json:"difficulty"`
	Categories    []string      `json:"categories"`
	Images        []string      `json:"images"`
	IsAnonymous   bool          `json:"is_anonymous"`
	Author        AuthorView    `json:"author"`
	Likes         int           `json:"likes"`
	HasLiked      bool          `json:"has_liked"`
	CommentsCount int           `json:"comments_count"`
	AverageRating float64       `json:"average_rating"`
	TotalRatings  int           `json:"total_ratings"`
	UserRating    *int          `json:"user_rating"`
	Comments      []CommentView `json:"comments,omitempty"` // Только в детальном просмотре
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type ReplyView struct {
	ID        string     `json:"id"`
	User      AuthorView `json:"user"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CommentView struct {
	ID        string      `json:"id"`
	User      AuthorView  `json:"user"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
	Replies   []ReplyView `json:"replies"`
}

type Pagination struct {
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	Current int   `json:"current"`
}

type CommentListResponse struct {
	Comments []CommentView `json:"comments"`
	Total    int           `json:"total"`
}

type RecipeListResponse struct {
	Recipes    []RecipeView `json:"recipes"`
	Pagination Pagination   `json:"pagination"`
}

// UserProfile - публичный профиль с созданными и понравившимися рецептами
type UserProfile struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email,omitempty"`
	Image          string       `json:"image,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	CreatedRecipes []RecipeView `json:"created_recipes"`
	LikedRecipes   []RecipeView `json:"liked_recipes"`
}

// ErrorResponse - стандартный ответ об ошибке, Code различает
// "нужно войти" (UNAUTHENTICATED) и "нет прав" (FORBIDDEN)
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// StoredResponse - сохранённый ответ для повтора по Idempotency-Key
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}
