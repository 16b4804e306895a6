package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

const testPassword = "password123"

type testEnv struct {
	s   *Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		Env:        "test",
		JWTSecret:  testSecret,
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
		EmailHost:  "smtp.gmail.com",
		EmailPort:  587,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return buildTestEnv(t, nil)
}

// newTestEnvWithRedis backs token revocation and notifications with miniredis.
func newTestEnvWithRedis(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := buildTestEnv(t, rdb)
	env.mr = mr
	return env
}

func buildTestEnv(t *testing.T, rdb *redis.Client) *testEnv {
	t.Helper()
	cfg := testConfig()
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testEnv{s: s, app: s.NewApp(), db: db}
}

var userSeq int

func (e *testEnv) createUser(t *testing.T, role string) *models.User {
	t.Helper()
	userSeq++
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		FullName: fmt.Sprintf("Cook %d", userSeq),
		Email:    fmt.Sprintf("cook%d@example.com", userSeq),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) createRecipe(t *testing.T, owner *models.User, title, category string) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		Title:        title,
		Description:  title + " description",
		Image:        "https://img.example.com/" + title + ".jpg",
		Images:       []string{"https://img.example.com/" + title + ".jpg"},
		PrepTime:     20,
		Difficulty:   "Easy",
		Category:     category,
		Cuisine:      "African",
		Diet:         "None",
		Serves:       2,
		Ingredients:  []string{"salt"},
		Instructions: []string{"stir"},
		UserID:       owner.ID,
	}
	require.NoError(t, e.db.Create(r).Error)
	return r
}

func (e *testEnv) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := e.s.generateToken(u.ID)
	require.NoError(t, err)
	return token
}

// do sends a JSON request and decodes the JSON response body into a map.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func TestHumanizeParam(t *testing.T) {
	tests := map[string]string{
		"id":       "ID",
		"userId":   "user ID",
		"recipeId": "recipe ID",
		"reviewId": "review ID",
		"slug":     "slug",
	}
	for in, want := range tests {
		assert.Equal(t, want, humanizeParam(in), in)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 10, 0},
		{"second page", "?page=2&limit=5", 2, 5, 5},
		{"limit capped", "?limit=500", 1, 100, 0},
		{"invalid values", "?page=-3&limit=0", 1, 10, 0},
		{"huge page clamped", "?page=4611686018427387905&limit=10", math.MaxInt / 10, 10, (math.MaxInt/10 - 1) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/items", func(c *fiber.Ctx) error {
				got = parsePagination(c)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestTotalPages(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10}
	assert.Equal(t, 0, p.totalPages(0))
	assert.Equal(t, 1, p.totalPages(10))
	assert.Equal(t, 2, p.totalPages(11))
	assert.Equal(t, 3, Pagination{Limit: 2}.totalPages(5))
}
