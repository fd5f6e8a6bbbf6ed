package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cloneRecipe делает глубокую копию, чтобы сервис не менял документ в хранилище напрямую
func cloneRecipe(r *entity.Recipe) *entity.Recipe {
	c := *r
	c.Ingredients = append([]entity.Ingredient(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	c.Categories = append([]string(nil), r.Categories...)
	c.Images = append([]string(nil), r.Images...)
	c.Likes = append([]string(nil), r.Likes...)
	c.Ratings = append([]entity.Rating(nil), r.Ratings...)
	c.Comments = make([]entity.Comment, len(r.Comments))
	for i, comment := range r.Comments {
		comment.Replies = append([]entity.Reply(nil), comment.Replies...)
		c.Comments[i] = comment
	}
	return &c
}

// memoryRecipeRepo - хранилище рецептов в памяти с тем же CAS контрактом, что и MongoDB
type memoryRecipeRepo struct {
	mu      sync.Mutex
	recipes map[string]*entity.Recipe
	// beforeReplace вызывается перед сравнением версий, чтобы вклинить конкурирующую запись
	beforeReplace func()
}

func newMemoryRecipeRepo() *memoryRecipeRepo {
	return &memoryRecipeRepo{recipes: map[string]*entity.Recipe{}}
}

func (m *memoryRecipeRepo) Create(_ context.Context, recipe *entity.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	recipe.Version = 1
	m.recipes[recipe.ID.Hex()] = cloneRecipe(recipe)
	return nil
}

func (m *memoryRecipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recipe, ok := m.recipes[id]
	if !ok {
		return nil, repository.ErrRecipeNotFound
	}
	return cloneRecipe(recipe), nil
}

func (m *memoryRecipeRepo) Replace(_ context.Context, recipe *entity.Recipe, expectedVersion int64) error {
	if hook := m.beforeReplace; hook != nil {
		m.beforeReplace = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.recipes[recipe.ID.Hex()]
	if !ok {
		return repository.ErrRecipeNotFound
	}
	if stored.Version != expectedVersion {
		return repository.ErrVersionConflict
	}

	recipe.Version = expectedVersion + 1
	m.recipes[recipe.ID.Hex()] = cloneRecipe(recipe)
	return nil
}

func (m *memoryRecipeRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[id]; !ok {
		return repository.ErrRecipeNotFound
	}
	delete(m.recipes, id)
	return nil
}

func (m *memoryRecipeRepo) List(_ context.Context, _ entity.RecipeFilter) ([]entity.Recipe, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recipes := make([]entity.Recipe, 0, len(m.recipes))
	for _, recipe := range m.recipes {
		recipes = append(recipes, *cloneRecipe(recipe))
	}
	return recipes, int64(len(recipes)), nil
}

func (m *memoryRecipeRepo) GetByIDs(_ context.Context, ids []string) ([]entity.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recipes := []entity.Recipe{}
	for _, id := range ids {
		if recipe, ok := m.recipes[id]; ok {
			recipes = append(recipes, *cloneRecipe(recipe))
		}
	}
	return recipes, nil
}

func (m *memoryRecipeRepo) ListLinks(_ context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	links := []entity.RecipeLink{}
	for id, recipe := range m.recipes {
		if kind == entity.LinkCreated {
			links = append(links, entity.RecipeLink{UserID: recipe.AuthorID, RecipeID: id, Kind: kind})
			continue
		}
		for _, userID := range recipe.Likes {
			links = append(links, entity.RecipeLink{UserID: userID, RecipeID: id, Kind: kind})
		}
	}
	return links, nil
}

// memoryUserRepo - справочник пользователей и индексы в памяти
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]entity.User
	links map[entity.RecipeLink]struct{}
	calls int // Количество обращений GetByIDs
}

func newMemoryUserRepo(users ...entity.User) *memoryUserRepo {
	repo := &memoryUserRepo{
		users: map[string]entity.User{},
		links: map[entity.RecipeLink]struct{}{},
	}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (m *memoryUserRepo) GetByIDs(_ context.Context, ids []string) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	users := []entity.User{}
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *memoryUserRepo) Upsert(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) AddLink(_ context.Context, link entity.RecipeLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links[link] = struct{}{}
	return nil
}

func (m *memoryUserRepo) RemoveLink(_ context.Context, link entity.RecipeLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.links, link)
	return nil
}

func (m *memoryUserRepo) RemoveRecipeLinks(_ context.Context, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for link := range m.links {
		if link.RecipeID == recipeID {
			delete(m.links, link)
		}
	}
	return nil
}

func (m *memoryUserRepo) LinkedRecipeIDs(_ context.Context, userID string, kind entity.LinkKind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := []string{}
	for link := range m.links {
		if link.UserID == userID && link.Kind == kind {
			ids = append(ids, link.RecipeID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryUserRepo) ListLinks(_ context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	links := []entity.RecipeLink{}
	for link := range m.links {
		if link.Kind == kind {
			links = append(links, link)
		}
	}
	return links, nil
}

func (m *memoryUserRepo) hasLink(userID, recipeID string, kind entity.LinkKind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.links[entity.RecipeLink{UserID: userID, RecipeID: recipeID, Kind: kind}]
	return ok
}

// seedRecipe сохраняет рецепт автора и возвращает его ID
func seedRecipe(repo *memoryRecipeRepo, authorID string) string {
	recipe := &entity.Recipe{Title: "Borscht", AuthorID: authorID}
	_ = repo.Create(context.Background(), recipe)
	return recipe.ID.Hex()
}

var fastWrites = WriteOptions{MaxWriteAttempts: 25, RetryBackoff: time.Millisecond}
