package handler

import (
	"net/http"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// UserHandler отдаёт профили пользователей и их рецепты
type UserHandler struct {
	recipeService service.RecipeServiceInterface
	validator     *validator.Validate
}

func NewUserHandler(recipeService service.RecipeServiceInterface) *UserHandler {
	return &UserHandler{
		recipeService: recipeService,
		validator:     validator.New(),
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.recipeService.GetUserProfile(c.Request.Context(), c.Param("id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetUserRecipes(c *gin.Context) {
	recipes, err := h.recipeService.GetUserRecipes(c.Request.Context(), c.Param("id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (h *UserHandler) GetLikedRecipes(c *gin.Context) {
	recipes, err := h.recipeService.GetLikedRecipes(c.Request.Context(), c.Param("id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// GetOwnProfile при первом обращении создаёт профиль из данных токена
func (h *UserHandler) GetOwnProfile(c *gin.Context) {
	profile, err := h.recipeService.GetOwnProfile(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateOwnProfile(c *gin.Context) {
	var req entity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, formatValidationError(err), CodeInvalidInput)
		return
	}

	profile, err := h.recipeService.UpdateOwnProfile(c.Request.Context(), callerFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
