package server

import (
	"strings"

	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

type recipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Images       []string `json:"images"`
	PrepTime     int      `json:"prepTime"`
	Difficulty   string   `json:"difficulty"`
	Category     string   `json:"category"`
	Cuisine      string   `json:"cuisine"`
	Diet         string   `json:"diet"`
	Serves       int      `json:"serves"`
	Calories     *int     `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

type recipePatchRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Image        *string  `json:"image"`
	Images       []string `json:"images"`
	PrepTime     *int     `json:"prepTime"`
	Difficulty   *string  `json:"difficulty"`
	Category     *string  `json:"category"`
	Cuisine      *string  `json:"cuisine"`
	Diet         *string  `json:"diet"`
	Serves       *int     `json:"serves"`
	Calories     *int     `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// GetRecipes handles GET /api/recipes
func (s *Server) GetRecipes(c *fiber.Ctx) error {
	p := parsePagination(c)
	filter := repository.RecipeFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Category:   c.Query("category"),
		Cuisine:    c.Query("cuisine"),
		Diet:       c.Query("diet"),
		Difficulty: c.Query("difficulty"),
		Sort:       c.Query("sort", repository.RecipeSortNewest),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}

	recipes, total, err := s.recipeService.ListRecipes(c.UserContext(), filter)
	if err != nil {
		return s.respondError(c, err)
	}
	return p.page(c, "recipes", "totalRecipes", recipes, total)
}

// GetUserRecipes handles GET /api/recipes/user/:userId
func (s *Server) GetUserRecipes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c)
	recipes, total, err := s.recipeService.ListRecipes(c.UserContext(), repository.RecipeFilter{
		UserID: userID,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return p.page(c, "recipes", "totalRecipes", recipes, total)
}

// GetRecipe handles GET /api/recipes/:id
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.GetRecipe(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(recipe)
}

// CreateRecipe handles POST /api/recipes
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req recipeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	recipe, err := s.recipeService.CreateRecipe(c.UserContext(), service.CreateRecipeInput{
		UserID: currentUserID(c),
		RecipeContent: service.RecipeContent{
			Title:        req.Title,
			Description:  req.Description,
			Image:        req.Image,
			Images:       req.Images,
			PrepTime:     req.PrepTime,
			Difficulty:   req.Difficulty,
			Category:     req.Category,
			Cuisine:      req.Cuisine,
			Diet:         req.Diet,
			Serves:       req.Serves,
			Calories:     req.Calories,
			Ingredients:  req.Ingredients,
			Instructions: req.Instructions,
		},
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// UpdateRecipe handles PUT /api/recipes/:id
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req recipePatchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	recipe, err := s.recipeService.UpdateRecipe(c.UserContext(), service.UpdateRecipeInput{
		RecipeID:     id,
		UserID:       currentUserID(c),
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Images:       req.Images,
		PrepTime:     req.PrepTime,
		Difficulty:   req.Difficulty,
		Category:     req.Category,
		Cuisine:      req.Cuisine,
		Diet:         req.Diet,
		Serves:       req.Serves,
		Calories:     req.Calories,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.recipeService.DeleteRecipe(c.UserContext(), id, currentUserID(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Recipe deleted successfully"})
}

// ToggleRecipeLike handles POST /api/recipes/:id/like
func (s *Server) ToggleRecipeLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, liked, err := s.recipeService.ToggleLike(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}

	message := "Recipe liked"
	if !liked {
		message = "Like removed"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"likes":   likes,
		"isLiked": liked,
	})
}
