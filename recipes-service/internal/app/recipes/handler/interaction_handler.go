package handler

import (
	"net/http"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
)

// InteractionHandler обслуживает комментарии, ответы, лайки и оценки рецепта
type InteractionHandler struct {
	interactionService service.InteractionServiceInterface
}

func NewInteractionHandler(interactionService service.InteractionServiceInterface) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
	}
}

func (h *InteractionHandler) GetComments(c *gin.Context) {
	comments, err := h.interactionService.GetComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.CommentListResponse{
		Comments: comments,
		Total:    len(comments),
	})
}

func (h *InteractionHandler) AddComment(c *gin.Context) {
	var req entity.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	comment, err := h.interactionService.AddComment(c.Request.Context(), c.Param("id"), callerFrom(c).ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *InteractionHandler) EditComment(c *gin.Context) {
	var req entity.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	comment, err := h.interactionService.EditComment(
		c.Request.Context(),
		c.Param("id"),
		c.Param("comment_id"),
		callerFrom(c).ID,
		req.Content,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	err := h.interactionService.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("comment_id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Comment deleted successfully",
	})
}

func (h *InteractionHandler) AddReply(c *gin.Context) {
	var req entity.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	reply, err := h.interactionService.AddReply(
		c.Request.Context(),
		c.Param("id"),
		c.Param("comment_id"),
		callerFrom(c).ID,
		req.Content,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (h *InteractionHandler) EditReply(c *gin.Context) {
	var req entity.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	reply, err := h.interactionService.EditReply(
		c.Request.Context(),
		c.Param("id"),
		c.Param("comment_id"),
		c.Param("reply_id"),
		callerFrom(c).ID,
		req.Content,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *InteractionHandler) DeleteReply(c *gin.Context) {
	err := h.interactionService.DeleteReply(
		c.Request.Context(),
		c.Param("id"),
		c.Param("comment_id"),
		c.Param("reply_id"),
		callerFrom(c).ID,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Reply deleted successfully",
	})
}

// ToggleLike ставит лайк, если его не было, и снимает в противном случае
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	status, err := h.interactionService.ToggleLike(c.Request.Context(), c.Param("id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *InteractionHandler) GetLikeStatus(c *gin.Context) {
	status, err := h.interactionService.GetLikeStatus(c.Request.Context(), c.Param("id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *InteractionHandler) SubmitRating(c *gin.Context) {
	var req entity.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	summary, err := h.interactionService.UpsertRating(c.Request.Context(), c.Param("id"), callerFrom(c).ID, req.Score)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *InteractionHandler) GetRatingSummary(c *gin.Context) {
	summary, err := h.interactionService.GetRatingSummary(c.Request.Context(), c.Param("id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
