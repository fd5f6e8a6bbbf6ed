package handler

import (
	"net/http"
	"strconv"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RecipeHandler struct {
	recipeService service.RecipeServiceInterface
	validator     *validator.Validate
}

func NewRecipeHandler(recipeService service.RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		validator:     validator.New(),
	}
}

// ListRecipes ищет рецепты по тексту, категории и сложности, новые первыми
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	difficulty := entity.Difficulty(c.Query("difficulty"))
	if difficulty != "" && !difficulty.Valid() {
		writeError(c, http.StatusBadRequest, "difficulty must be one of easy, medium, hard", CodeInvalidInput)
		return
	}

	filter := entity.RecipeFilter{
		Query:      c.Query("query"),
		Category:   c.Query("category"),
		Difficulty: difficulty,
		Page:       page,
		Limit:      entity.DefaultPageSize,
	}

	result, err := h.recipeService.ListRecipes(c.Request.Context(), filter, callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req entity.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, formatValidationError(err), CodeInvalidInput)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), callerFrom(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"), callerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req entity.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, formatValidationError(err), CodeInvalidInput)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), c.Param("id"), callerFrom(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), c.Param("id"), callerFrom(c).ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Recipe deleted successfully",
	})
}
