package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	serviceName      = "recipes-service"
	recipeCollection = "recipes"
)

type recipeRepository struct {
	collection *mongo.Collection
}

// NewRecipeRepository создает репозиторий рецептов
// Автоматически создает текстовый индекс для поиска и индексы по автору и лайкам
func NewRecipeRepository(db *mongo.Database) RecipeRepository {
	collection := db.Collection(recipeCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "ingredients.name", Value: "text"},
			},
			Options: options.Index().SetName("recipe_text_idx"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("author_idx"),
		},
		{
			Keys:    bson.D{{Key: "likes", Value: 1}},
			Options: options.Index().SetName("likes_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Индексы могут уже существовать с другими опциями - работу не прерываем
		logger.Warn().Err(err).Str("collection", recipeCollection).Msg("Failed to create indexes")
	}

	return &recipeRepository{collection: collection}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, recipeCollection)

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	recipe.Version = 1
	normalizeCollections(recipe)

	result, err := r.collection.InsertOne(ctx, recipe)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		recipe.ID = oid
	}

	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Невалидный ID не может указывать на существующий рецепт
		return nil, ErrRecipeNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, recipeCollection)

	var recipe entity.Recipe
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			timer.ObserveDuration()
			return nil, ErrRecipeNotFound
		}
		timer.Done(err)
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	timer.ObserveDuration()

	normalizeCollections(&recipe)
	return &recipe, nil
}

// Replace выполняет compare-and-swap по полю version.
// Документ записывается целиком, частичных записей не бывает
func (r *recipeRepository) Replace(ctx context.Context, recipe *entity.Recipe, expectedVersion int64) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, recipeCollection)

	recipe.Version = expectedVersion + 1
	recipe.UpdatedAt = time.Now()
	normalizeCollections(recipe)

	filter := bson.M{"_id": recipe.ID, "version": expectedVersion}
	result, err := r.collection.ReplaceOne(ctx, filter, recipe)
	timer.Done(err)
	if err != nil {
		recipe.Version = expectedVersion
		return fmt.Errorf("failed to replace recipe: %w", err)
	}

	if result.MatchedCount == 0 {
		recipe.Version = expectedVersion

		// Различаем удалённый рецепт и проигранную гонку
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": recipe.ID})
		if err != nil {
			return fmt.Errorf("failed to check recipe existence: %w", err)
		}
		if count == 0 {
			return ErrRecipeNotFound
		}
		return ErrVersionConflict
	}

	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRecipeNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, recipeCollection)
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// List возвращает страницу рецептов, отсортированных от новых к старым,
// и общее количество рецептов под фильтром
func (r *recipeRepository) List(ctx context.Context, filter entity.RecipeFilter) ([]entity.Recipe, int64, error) {
	query := buildListFilter(filter)
	page, limit := normalizePage(filter.Page, filter.Limit)

	countTimer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, recipeCollection)
	total, err := r.collection.CountDocuments(ctx, query)
	countTimer.Done(err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	recipes, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// GetByIDs возвращает рецепты по набору ID, невалидные и отсутствующие ID пропускаются
func (r *recipeRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Recipe, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return []entity.Recipe{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, opts)
}

// ListLinks строит эталонные пары для обратных индексов:
// для liked разворачивает массив likes, для created берёт поле author
func (r *recipeRepository) ListLinks(ctx context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error) {
	var pipeline mongo.Pipeline
	switch kind {
	case entity.LinkLiked:
		pipeline = mongo.Pipeline{
			{{Key: "$unwind", Value: "$likes"}},
			{{Key: "$project", Value: bson.M{"_id": 0, "recipe": "$_id", "user": "$likes"}}},
		}
	case entity.LinkCreated:
		pipeline = mongo.Pipeline{
			{{Key: "$project", Value: bson.M{"_id": 0, "recipe": "$_id", "user": "$author"}}},
		}
	default:
		return nil, fmt.Errorf("unknown link kind %q", kind)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpAggregate, recipeCollection)
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to aggregate recipe links: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Recipe primitive.ObjectID `bson:"recipe"`
		User   string             `bson:"user"`
	}
	err = cursor.All(ctx, &rows)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recipe links: %w", err)
	}

	links := make([]entity.RecipeLink, 0, len(rows))
	for _, row := range rows {
		if row.User == "" {
			continue
		}
		links = append(links, entity.RecipeLink{
			UserID:   row.User,
			RecipeID: row.Recipe.Hex(),
			Kind:     kind,
		})
	}

	return links, nil
}

func (r *recipeRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.Recipe, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, recipeCollection)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to find recipes: %w", err)
	}
	defer cursor.Close(ctx)

	recipes := []entity.Recipe{}
	err = cursor.All(ctx, &recipes)
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	for i := range recipes {
		normalizeCollections(&recipes[i])
	}

	return recipes, nil
}

// buildListFilter собирает фильтр MongoDB для поиска рецептов
func buildListFilter(filter entity.RecipeFilter) bson.M {
	query := bson.M{}

	if filter.Query != "" {
		query["$text"] = bson.M{"$search": filter.Query}
	}
	if filter.Category != "" {
		// Категории сравниваются без учёта регистра
		query["categories"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(filter.Category) + "$",
			Options: "i",
		}
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}

	return query
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = entity.DefaultPageSize
	}
	return page, limit
}

// normalizeCollections заменяет nil-срезы пустыми, чтобы в БД и в JSON
// всегда были массивы, а не null
func normalizeCollections(recipe *entity.Recipe) {
	if recipe.Ingredients == nil {
		recipe.Ingredients = []entity.Ingredient{}
	}
	if recipe.Instructions == nil {
		recipe.Instructions = []string{}
	}
	if recipe.Categories == nil {
		recipe.Categories = []string{}
	}
	if recipe.Images == nil {
		recipe.Images = []string{}
	}
	if recipe.Likes == nil {
		recipe.Likes = []string{}
	}
	if recipe.Comments == nil {
		recipe.Comments = []entity.Comment{}
	}
	if recipe.Ratings == nil {
		recipe.Ratings = []entity.Rating{}
	}
	for i := range recipe.Comments {
		if recipe.Comments[i].Replies == nil {
			recipe.Comments[i].Replies = []entity.Reply{}
		}
	}
}
