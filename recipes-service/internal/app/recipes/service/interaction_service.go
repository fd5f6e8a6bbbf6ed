package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/metrics"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxContentLength = 2000

// InteractionService - лайки, оценки, комментарии и ответы к рецептам.
// Каждая мутация переписывает документ рецепта целиком под контролем версии
type InteractionService struct {
	writer    *recipeWriter
	projector *projector
	index     *indexSync
	events    *eventPublisher
	now       func() time.Time
}

// NewInteractionService создает сервис взаимодействий с внедрением зависимостей
func NewInteractionService(
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	kafkaProducer infrastructure.MessagePublisher,
	opts WriteOptions,
) *InteractionService {
	return &InteractionService{
		writer:    newRecipeWriter(recipeRepo, opts),
		projector: newProjector(userRepo),
		index:     newIndexSync(userRepo),
		events:    newEventPublisher(kafkaProducer),
		now:       time.Now,
	}
}

// AddComment добавляет комментарий в конец списка
func (s *InteractionService) AddComment(ctx context.Context, recipeID, callerID, content string) (*entity.CommentView, error) {
	if err := Authorize(callerID, Resource{Kind: ResourceComment}, ActionCreate); err != nil {
		return nil, err
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	var created entity.Comment
	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		created = r.AddComment(callerID, content, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CommentsWritten.WithLabelValues("comment", "add").Inc()
	s.publish(ctx, entity.EventCommentAdded, recipe, callerID, created.ID.Hex())

	view := s.projector.Comment(ctx, created)
	return &view, nil
}

// EditComment меняет текст комментария. Править может только автор комментария
func (s *InteractionService) EditComment(ctx context.Context, recipeID, commentID, callerID, content string) (*entity.CommentView, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	var edited entity.Comment
	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		comment, err := findComment(r, commentID)
		if err != nil {
			return err
		}
		if err := Authorize(callerID, Resource{Kind: ResourceComment, OwnerID: comment.UserID}, ActionEdit); err != nil {
			return err
		}

		comment.Edit(content, s.now())
		edited = *comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CommentsWritten.WithLabelValues("comment", "edit").Inc()
	s.publish(ctx, entity.EventCommentEdited, recipe, callerID, commentID)

	view := s.projector.Comment(ctx, edited)
	return &view, nil
}

// DeleteComment удаляет комментарий вместе со всеми ответами
func (s *InteractionService) DeleteComment(ctx context.Context, recipeID, commentID, callerID string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}

	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		comment, err := findComment(r, commentID)
		if err != nil {
			return err
		}
		if err := Authorize(callerID, Resource{Kind: ResourceComment, OwnerID: comment.UserID}, ActionDelete); err != nil {
			return err
		}

		r.RemoveComment(comment.ID)
		return nil
	})
	if err != nil {
		return err
	}

	metrics.CommentsWritten.WithLabelValues("comment", "delete").Inc()
	s.publish(ctx, entity.EventCommentDeleted, recipe, callerID, commentID)

	return nil
}

// AddReply добавляет ответ в конец списка ответов комментария
func (s *InteractionService) AddReply(ctx context.Context, recipeID, commentID, callerID, content string) (*entity.ReplyView, error) {
	if err := Authorize(callerID, Resource{Kind: ResourceReply}, ActionCreate); err != nil {
		return nil, err
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	var created entity.Reply
	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		comment, err := findComment(r, commentID)
		if err != nil {
			return err
		}
		created = comment.AddReply(callerID, content, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CommentsWritten.WithLabelValues("reply", "add").Inc()
	s.publish(ctx, entity.EventReplyAdded, recipe, callerID, created.ID.Hex())

	view := s.projector.Reply(ctx, created)
	return &view, nil
}

func (s *InteractionService) EditReply(ctx context.Context, recipeID, commentID, replyID, callerID, content string) (*entity.ReplyView, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	var edited entity.Reply
	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		comment, err := findComment(r, commentID)
		if err != nil {
			return err
		}
		reply, err := findReply(comment, replyID)
		if err != nil {
			return err
		}
		if err := Authorize(callerID, Resource{Kind: ResourceReply, OwnerID: reply.UserID}, ActionEdit); err != nil {
			return err
		}

		reply.Edit(content, s.now())
		edited = *reply
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CommentsWritten.WithLabelValues("reply", "edit").Inc()
	s.publish(ctx, entity.EventReplyEdited, recipe, callerID, replyID)

	view := s.projector.Reply(ctx, edited)
	return &view, nil
}

// DeleteReply удаляет ответ, родительский комментарий и остальные ответы не меняются
func (s *InteractionService) DeleteReply(ctx context.Context, recipeID, commentID, replyID, callerID string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}

	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		comment, err := findComment(r, commentID)
		if err != nil {
			return err
		}
		reply, err := findReply(comment, replyID)
		if err != nil {
			return err
		}
		if err := Authorize(callerID, Resource{Kind: ResourceReply, OwnerID: reply.UserID}, ActionDelete); err != nil {
			return err
		}

		comment.RemoveReply(reply.ID)
		return nil
	})
	if err != nil {
		return err
	}

	metrics.CommentsWritten.WithLabelValues("reply", "delete").Inc()
	s.publish(ctx, entity.EventReplyDeleted, recipe, callerID, replyID)

	return nil
}

// ToggleLike инвертирует лайк пользователя и зеркалирует его в индекс liked
func (s *InteractionService) ToggleLike(ctx context.Context, recipeID, callerID string) (*entity.LikeStatus, error) {
	if err := Authorize(callerID, Resource{Kind: ResourceLike}, ActionCreate); err != nil {
		return nil, err
	}

	var liked bool
	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		liked = r.ToggleLike(callerID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	link := entity.RecipeLink{UserID: callerID, RecipeID: recipe.ID.Hex(), Kind: entity.LinkLiked}
	eventType := entity.EventRecipeLiked
	if liked {
		s.index.add(ctx, link)
		metrics.LikesToggled.WithLabelValues("liked").Inc()
	} else {
		s.index.remove(ctx, link)
		metrics.LikesToggled.WithLabelValues("unliked").Inc()
		eventType = entity.EventRecipeUnliked
	}
	s.publish(ctx, eventType, recipe, callerID, "")

	status := recipe.LikeStatus(callerID)
	return &status, nil
}

// UpsertRating ставит или перезаписывает оценку пользователя
func (s *InteractionService) UpsertRating(ctx context.Context, recipeID, callerID string, score int) (*entity.RatingSummary, error) {
	if err := Authorize(callerID, Resource{Kind: ResourceRating}, ActionCreate); err != nil {
		return nil, err
	}
	if !entity.ValidScore(score) {
		return nil, invalidInput("score must be between 1 and 5")
	}

	recipe, err := s.writer.apply(ctx, recipeID, func(r *entity.Recipe) error {
		r.UpsertRating(callerID, score)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RatingScores.Observe(float64(score))
	s.events.publish(ctx, entity.RecipeEvent{
		EventType: entity.EventRecipeRated,
		RecipeID:  recipe.ID.Hex(),
		ActorID:   callerID,
		Score:     score,
		Version:   recipe.Version,
	})

	summary := recipe.RatingSummary(callerID)
	return &summary, nil
}

// GetComments возвращает комментарии рецепта с ответами
func (s *InteractionService) GetComments(ctx context.Context, recipeID string) ([]entity.CommentView, error) {
	recipe, err := s.writer.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.projector.Comments(ctx, recipe.Comments)
}

// GetLikeStatus без viewerID всегда возвращает has_liked=false
func (s *InteractionService) GetLikeStatus(ctx context.Context, recipeID, viewerID string) (*entity.LikeStatus, error) {
	recipe, err := s.writer.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	status := recipe.LikeStatus(viewerID)
	return &status, nil
}

func (s *InteractionService) GetRatingSummary(ctx context.Context, recipeID, viewerID string) (*entity.RatingSummary, error) {
	recipe, err := s.writer.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	summary := recipe.RatingSummary(viewerID)
	return &summary, nil
}

func (s *InteractionService) publish(ctx context.Context, eventType entity.EventType, recipe *entity.Recipe, actorID, targetID string) {
	s.events.publish(ctx, entity.RecipeEvent{
		EventType: eventType,
		RecipeID:  recipe.ID.Hex(),
		ActorID:   actorID,
		TargetID:  targetID,
		Version:   recipe.Version,
	})
}

// normalizeContent обрезает пробелы и проверяет, что текст не пустой
func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalidInput("content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", invalidInput("content is too long")
	}
	return content, nil
}

// findComment возвращает указатель на комментарий внутри агрегата.
// Невалидный ID равносилен отсутствующему комментарию
func findComment(recipe *entity.Recipe, commentID string) (*entity.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	comment := recipe.FindComment(oid)
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func findReply(comment *entity.Comment, replyID string) (*entity.Reply, error) {
	oid, err := primitive.ObjectIDFromHex(replyID)
	if err != nil {
		return nil, ErrReplyNotFound
	}
	reply := comment.FindReply(oid)
	if reply == nil {
		return nil, ErrReplyNotFound
	}
	return reply, nil
}
