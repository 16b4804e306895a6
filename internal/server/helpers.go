package server

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"recipebox/internal/middleware"
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed page/limit query parameters.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

const (
	defaultPageSize    = 10
	maxPaginationLimit = 100
)

// parsePagination reads 1-based page and limit query parameters.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	// Keep (page-1)*limit from overflowing into a negative offset.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// totalPages is ceil(total / limit).
func (p Pagination) totalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// page writes the list envelope shared by every paginated endpoint, e.g.
// {"reviews": [...], "totalReviews": 12, "currentPage": 1, "totalPages": 2}.
func (p Pagination) page(c *fiber.Ctx, itemsKey, totalKey string, items any, total int64) error {
	return c.JSON(fiber.Map{
		itemsKey:      items,
		totalKey:      total,
		"currentPage": p.Page,
		"totalPages":  p.totalPages(total),
	})
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "recipeId" -> "Invalid recipe ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "reviewId" -> "review ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondError maps err to its status and writes the error envelope.
// Server-side failures are logged with the request context.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}
