package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Ingredient struct {
	Name   string  `json:"name" bson:"name" validate:"required,max=200"`
	Amount float64 `json:"amount" bson:"amount" validate:"gt=0"`
	Unit   string  `json:"unit" bson:"unit" validate:"required,max=50"`
}

// Recipe - корень агрегата. Лайки, комментарии (с ответами) и оценки
// хранятся внутри документа и сохраняются только целиком
type Recipe struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Ingredients  []Ingredient       `json:"ingredients" bson:"ingredients"`
	Instructions []string           `json:"instructions" bson:"instructions"`
	CookingTime  int                `json:"cooking_time" bson:"cooking_time"` // Минуты
	Servings     int                `json:"servings" bson:"servings"`
	Difficulty   Difficulty         `json:"difficulty" bson:"difficulty"`
	Categories   []string           `json:"categories" bson:"categories"`
	Images       []string           `json:"images" bson:"images"`
	IsAnonymous  bool               `json:"is_anonymous" bson:"is_anonymous"`
	AuthorID     string             `json:"author_id" bson:"author"` // UUID пользователя, неизменяем
	Likes        []string           `json:"likes" bson:"likes"`
	Comments     []Comment          `json:"comments" bson:"comments"`
	Ratings      []Rating           `json:"ratings" bson:"ratings"`
	Version      int64              `json:"-" bson:"version"` // Счётчик для optimistic locking
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    string             `json:"user_id" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	Replies   []Reply            `json:"replies" bson:"replies"`
}

type Reply struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    string             `json:"user_id" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type Rating struct {
	UserID string `json:"user_id" bson:"user"`
	Score  int    `json:"score" bson:"score"` // От 1 до 5
}

// User - запись справочника пользователей в PostgreSQL.
// Рецепты ссылаются на пользователя только по ID
type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	Image     string    `json:"image,omitempty" gorm:"type:text"`
	Bio       string    `json:"bio,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type LinkKind string

const (
	LinkLiked   LinkKind = "liked"
	LinkCreated LinkKind = "created"
)

// RecipeLink - строка обратного индекса пользователя (liked/created рецепты).
// Источник истины - документ рецепта, индекс восстанавливается реконсиляцией
type RecipeLink struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	RecipeID  string    `gorm:"type:varchar(24);primaryKey;index"`
	Kind      LinkKind  `gorm:"type:varchar(16);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RecipeLink) TableName() string { return "user_recipe_links" }

type EventType string

const (
	EventRecipeCreated  EventType = "RECIPE_CREATED"
	EventRecipeUpdated  EventType = "RECIPE_UPDATED"
	EventRecipeDeleted  EventType = "RECIPE_DELETED"
	EventCommentAdded   EventType = "COMMENT_ADDED"
	EventCommentEdited  EventType = "COMMENT_EDITED"
	EventCommentDeleted EventType = "COMMENT_DELETED"
	EventReplyAdded     EventType = "REPLY_ADDED"
	EventReplyEdited    EventType = "REPLY_EDITED"
	EventReplyDeleted   EventType = "REPLY_DELETED"
	EventRecipeLiked    EventType = "RECIPE_LIKED"
	EventRecipeUnliked  EventType = "RECIPE_UNLIKED"
	EventRecipeRated    EventType = "RECIPE_RATED"
)

// RecipeEvent - событие в топике recipe_events, ключ сообщения = RecipeID
type RecipeEvent struct {
	EventType EventType `json:"event_type"`
	RecipeID  string    `json:"recipe_id"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id,omitempty"` // ID комментария или ответа
	Score     int       `json:"score,omitempty"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}
