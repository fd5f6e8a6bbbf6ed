package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinScore = 1
	MaxScore = 5
)

// RatingSummary - производные агрегаты по оценкам рецепта
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
	UserRating    *int    `json:"user_rating"`
}

// LikeStatus - количество лайков и отметка текущего пользователя
type LikeStatus struct {
	Likes    int  `json:"likes"`
	HasLiked bool `json:"has_liked"`
}

// AddComment добавляет комментарий в конец списка и возвращает его копию
func (r *Recipe) AddComment(userID, content string, now time.Time) Comment {
	comment := Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		Replies:   []Reply{},
	}
	r.Comments = append(r.Comments, comment)
	return comment
}

// FindComment возвращает указатель на комментарий внутри агрегата
func (r *Recipe) FindComment(id primitive.ObjectID) *Comment {
	for i := range r.Comments {
		if r.Comments[i].ID == id {
			return &r.Comments[i]
		}
	}
	return nil
}

// RemoveComment удаляет комментарий вместе со всеми ответами
func (r *Recipe) RemoveComment(id primitive.ObjectID) bool {
	for i := range r.Comments {
		if r.Comments[i].ID == id {
			r.Comments = append(r.Comments[:i], r.Comments[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Comment) Edit(content string, now time.Time) {
	c.Content = content
	c.UpdatedAt = &now
}

func (c *Comment) AddReply(userID, content string, now time.Time) Reply {
	reply := Reply{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
	}
	c.Replies = append(c.Replies, reply)
	return reply
}

func (c *Comment) FindReply(id primitive.ObjectID) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			return &c.Replies[i]
		}
	}
	return nil
}

func (c *Comment) RemoveReply(id primitive.ObjectID) bool {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			c.Replies = append(c.Replies[:i], c.Replies[i+1:]...)
			return true
		}
	}
	return false
}

func (rp *Reply) Edit(content string, now time.Time) {
	rp.Content = content
	rp.UpdatedAt = &now
}

func (r *Recipe) HasLiked(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike инвертирует принадлежность пользователя множеству лайков
// и возвращает новое состояние. Повторный вызов возвращает исходное состояние
func (r *Recipe) ToggleLike(userID string) bool {
	for i, id := range r.Likes {
		if id == userID {
			r.Likes = append(r.Likes[:i], r.Likes[i+1:]...)
			return false
		}
	}
	r.Likes = append(r.Likes, userID)
	return true
}

func (r *Recipe) LikeStatus(viewerID string) LikeStatus {
	return LikeStatus{
		Likes:    len(r.Likes),
		HasLiked: r.HasLiked(viewerID),
	}
}

// UpsertRating перезаписывает оценку пользователя или добавляет новую.
// На одного пользователя в рецепте всегда не больше одной записи
func (r *Recipe) UpsertRating(userID string, score int) {
	for i := range r.Ratings {
		if r.Ratings[i].UserID == userID {
			r.Ratings[i].Score = score
			return
		}
	}
	r.Ratings = append(r.Ratings, Rating{UserID: userID, Score: score})
}

func (r *Recipe) UserRating(userID string) *int {
	if userID == "" {
		return nil
	}
	for _, rating := range r.Ratings {
		if rating.UserID == userID {
			score := rating.Score
			return &score
		}
	}
	return nil
}

// RatingSummary пересчитывает среднюю оценку по всей коллекции
func (r *Recipe) RatingSummary(viewerID string) RatingSummary {
	sum := 0
	for _, rating := range r.Ratings {
		sum += rating.Score
	}
	return RatingSummary{
		AverageRating: AverageRating(sum, len(r.Ratings)),
		TotalRatings:  len(r.Ratings),
		UserRating:    r.UserRating(viewerID),
	}
}

// AverageRating округляет среднее до одного знака по правилу half-up.
// Считается в целых десятых, чтобы 3.25 давало 3.3, а не 3.2 из-за float
func AverageRating(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	tenths := (sum*20 + count) / (count * 2)
	return float64(tenths) / 10
}

func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
