package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UserRepositoryTestSuite тестовый suite для справочника пользователей
type UserRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  UserRepository
	sqlDB *sql.DB
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewUserRepository(s.db)
}

func (s *UserRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== GetByID Tests =====================

func (s *UserRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "image", "bio", "created_at", "updated_at"}).
		AddRow(userID, "Alice", "alice@example.com", "https://img.example.com/a.png", "", time.Now(), time.Now())

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(rows)

	user, err := s.repo.GetByID(ctx, userID)

	s.NoError(err)
	s.Equal(userID, user.ID)
	s.Equal("Alice", user.Name)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnError(gorm.ErrRecordNotFound)

	user, err := s.repo.GetByID(ctx, uuid.NewString())

	s.ErrorIs(err, ErrUserNotFound)
	s.Nil(user)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestGetByID_DBError() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnError(sql.ErrConnDone)

	user, err := s.repo.GetByID(ctx, uuid.NewString())

	s.Error(err)
	s.NotErrorIs(err, ErrUserNotFound)
	s.Nil(user)
	s.Contains(err.Error(), "failed to get user")
}

// ===================== GetByIDs Tests =====================

func (s *UserRepositoryTestSuite) TestGetByIDs_SingleQuery() {
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(alice, "Alice").
		AddRow(bob, "Bob")

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id IN ($1,$2)`)).
		WithArgs(alice, bob).
		WillReturnRows(rows)

	users, err := s.repo.GetByIDs(ctx, []string{alice, bob})

	s.NoError(err)
	s.Len(users, 2)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestGetByIDs_EmptyInputSkipsQuery() {
	users, err := s.repo.GetByIDs(context.Background(), nil)

	s.NoError(err)
	s.Empty(users)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Upsert Tests =====================

func (s *UserRepositoryTestSuite) TestUpsert_Success() {
	ctx := context.Background()
	user := &entity.User{ID: uuid.NewString(), Name: "Alice", Bio: "cook"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Upsert(ctx, user)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Link Tests =====================

func (s *UserRepositoryTestSuite) TestAddLink_IgnoresDuplicates() {
	ctx := context.Background()
	link := entity.RecipeLink{UserID: uuid.NewString(), RecipeID: "65f0c0ffee0000000000abcd", Kind: entity.LinkLiked}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "user_recipe_links" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.AddLink(ctx, link)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestAddLink_DBError() {
	ctx := context.Background()
	link := entity.RecipeLink{UserID: uuid.NewString(), RecipeID: "65f0c0ffee0000000000abcd", Kind: entity.LinkLiked}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "user_recipe_links"`).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	err := s.repo.AddLink(ctx, link)

	s.Error(err)
	s.Contains(err.Error(), "failed to add recipe link")
}

func (s *UserRepositoryTestSuite) TestRemoveLink_Success() {
	ctx := context.Background()
	link := entity.RecipeLink{UserID: uuid.NewString(), RecipeID: "65f0c0ffee0000000000abcd", Kind: entity.LinkLiked}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user_recipe_links" WHERE user_id = $1 AND recipe_id = $2 AND kind = $3`)).
		WithArgs(link.UserID, link.RecipeID, link.Kind).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.RemoveLink(ctx, link)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestRemoveLink_MissingRowIsNotAnError() {
	ctx := context.Background()
	link := entity.RecipeLink{UserID: uuid.NewString(), RecipeID: "65f0c0ffee0000000000abcd", Kind: entity.LinkCreated}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user_recipe_links"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.NoError(s.repo.RemoveLink(ctx, link))
}

func (s *UserRepositoryTestSuite) TestRemoveRecipeLinks() {
	ctx := context.Background()
	recipeID := "65f0c0ffee0000000000abcd"

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user_recipe_links" WHERE recipe_id = $1`)).
		WithArgs(recipeID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	s.mock.ExpectCommit()

	s.NoError(s.repo.RemoveRecipeLinks(ctx, recipeID))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestLinkedRecipeIDs() {
	ctx := context.Background()
	userID := uuid.NewString()

	rows := sqlmock.NewRows([]string{"recipe_id"}).
		AddRow("65f0c0ffee0000000000abcd").
		AddRow("65f0c0ffee0000000000abce")

	s.mock.ExpectQuery(`SELECT "recipe_id" FROM "user_recipe_links" WHERE user_id = \$1 AND kind = \$2 ORDER BY created_at DESC`).
		WithArgs(userID, entity.LinkLiked).
		WillReturnRows(rows)

	ids, err := s.repo.LinkedRecipeIDs(ctx, userID, entity.LinkLiked)

	s.NoError(err)
	s.Equal([]string{"65f0c0ffee0000000000abcd", "65f0c0ffee0000000000abce"}, ids)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestListLinks() {
	ctx := context.Background()
	userID := uuid.NewString()

	rows := sqlmock.NewRows([]string{"user_id", "recipe_id", "kind", "created_at"}).
		AddRow(userID, "65f0c0ffee0000000000abcd", "created", time.Now())

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user_recipe_links" WHERE kind = $1`)).
		WithArgs(entity.LinkCreated).
		WillReturnRows(rows)

	links, err := s.repo.ListLinks(ctx, entity.LinkCreated)

	s.NoError(err)
	s.Len(links, 1)
	s.Equal(entity.LinkCreated, links[0].Kind)
	s.Equal(userID, links[0].UserID)
}
