package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRecipe() *Recipe {
	return &Recipe{
		ID:       primitive.NewObjectID(),
		Title:    "Shakshuka",
		AuthorID: "author-1",
	}
}

func TestToggleLike_IsInvolution(t *testing.T) {
	recipe := newRecipe()

	assert.True(t, recipe.ToggleLike("user-1"))
	assert.True(t, recipe.HasLiked("user-1"))
	assert.Len(t, recipe.Likes, 1)

	assert.False(t, recipe.ToggleLike("user-1"))
	assert.False(t, recipe.HasLiked("user-1"))
	assert.Empty(t, recipe.Likes)
}

func TestToggleLike_CountsDistinctUsers(t *testing.T) {
	recipe := newRecipe()

	recipe.ToggleLike("user-1")
	recipe.ToggleLike("user-2")
	recipe.ToggleLike("user-3")
	recipe.ToggleLike("user-2") // unlike

	status := recipe.LikeStatus("user-2")
	assert.Equal(t, 2, status.Likes)
	assert.False(t, status.HasLiked)
	assert.Equal(t, []string{"user-1", "user-3"}, recipe.Likes)
}

func TestLikeStatus_NoViewer(t *testing.T) {
	recipe := newRecipe()
	recipe.ToggleLike("user-1")

	status := recipe.LikeStatus("")
	assert.Equal(t, 1, status.Likes)
	assert.False(t, status.HasLiked)
}

func TestUpsertRating_OverwritesSameUser(t *testing.T) {
	recipe := newRecipe()

	recipe.UpsertRating("user-1", 2)
	recipe.UpsertRating("user-1", 5)

	require.Len(t, recipe.Ratings, 1)
	assert.Equal(t, 5, recipe.Ratings[0].Score)
	assert.Equal(t, 5, *recipe.UserRating("user-1"))
}

func TestRatingSummary(t *testing.T) {
	tests := []struct {
		name    string
		scores  []int
		average float64
	}{
		{"no ratings", nil, 0},
		{"three to five", []int{3, 4, 5}, 4.0},
		{"one and two", []int{1, 2}, 1.5},
		{"half up", []int{3, 3, 3, 4}, 3.3},
		{"thirds round down", []int{4, 4, 5}, 4.3},
		{"two thirds round up", []int{4, 5, 5}, 4.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe := newRecipe()
			for i, score := range tt.scores {
				recipe.UpsertRating(fmt.Sprintf("user-%d", i), score)
			}

			summary := recipe.RatingSummary("")
			assert.Equal(t, tt.average, summary.AverageRating)
			assert.Equal(t, len(tt.scores), summary.TotalRatings)
			assert.Nil(t, summary.UserRating)
		})
	}
}

func TestValidScore(t *testing.T) {
	assert.False(t, ValidScore(0))
	assert.True(t, ValidScore(1))
	assert.True(t, ValidScore(5))
	assert.False(t, ValidScore(6))
}

func TestComments_InsertionOrderAndCascade(t *testing.T) {
	recipe := newRecipe()
	now := time.Now()

	first := recipe.AddComment("user-1", "first", now)
	second := recipe.AddComment("user-2", "second", now)

	parent := recipe.FindComment(first.ID)
	require.NotNil(t, parent)
	r1 := parent.AddReply("user-2", "reply one", now)
	r2 := parent.AddReply("user-3", "reply two", now)
	assert.Equal(t, []primitive.ObjectID{r1.ID, r2.ID}, []primitive.ObjectID{parent.Replies[0].ID, parent.Replies[1].ID})

	assert.True(t, recipe.RemoveComment(first.ID))
	require.Len(t, recipe.Comments, 1)
	assert.Equal(t, second.ID, recipe.Comments[0].ID)
	assert.Nil(t, recipe.FindComment(first.ID))
	assert.False(t, recipe.RemoveComment(first.ID))
}

func TestRemoveReply_KeepsSiblingsAndParent(t *testing.T) {
	recipe := newRecipe()
	now := time.Now()

	comment := recipe.AddComment("user-1", "parent", now)
	parent := recipe.FindComment(comment.ID)
	r1 := parent.AddReply("user-2", "one", now)
	r2 := parent.AddReply("user-3", "two", now)

	assert.True(t, parent.RemoveReply(r1.ID))

	parent = recipe.FindComment(comment.ID)
	require.NotNil(t, parent)
	assert.Equal(t, "parent", parent.Content)
	require.Len(t, parent.Replies, 1)
	assert.Equal(t, r2.ID, parent.Replies[0].ID)
	assert.Nil(t, parent.FindReply(r1.ID))
}

func TestEdit_SetsUpdatedAt(t *testing.T) {
	recipe := newRecipe()
	created := time.Now().Add(-time.Hour)
	comment := recipe.AddComment("user-1", "old", created)
	assert.Nil(t, comment.UpdatedAt)

	edited := time.Now()
	target := recipe.FindComment(comment.ID)
	target.Edit("new", edited)

	assert.Equal(t, "new", recipe.Comments[0].Content)
	require.NotNil(t, recipe.Comments[0].UpdatedAt)
	assert.Equal(t, edited, *recipe.Comments[0].UpdatedAt)
	assert.Equal(t, created, recipe.Comments[0].CreatedAt)
}

func TestDifficultyValid(t *testing.T) {
	assert.True(t, DifficultyMedium.Valid())
	assert.False(t, Difficulty("extreme").Valid())
	assert.False(t, Difficulty("").Valid())
}
