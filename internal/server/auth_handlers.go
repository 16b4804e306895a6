package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"recipebox/internal/cache"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Full name, email, and password are required"))
	}
	if err := validation.ValidateFullName(req.FullName); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	existing, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return s.respondError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("An account with this email already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     models.NormalizeEmail(req.Email),
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
		IsActive:  true,
		LastLogin: time.Now(),
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		return s.respondError(c, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	user, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		return s.respondError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}
	if !user.IsActive {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Your account has been deactivated"))
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(c.UserContext(), user.ID, now); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to record last login",
			slog.Uint64("user_id", uint64(user.ID)), slog.String("error", err.Error()))
	} else {
		user.LastLogin = now
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout. The token's jti stays revoked until it would have expired.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals("claims").(jwt.MapClaims)
	jti, _ := claims["jti"].(string)

	if jti != "" && s.redis != nil {
		ttl := tokenLifetime
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			ttl = time.Until(exp.Time)
		}
		if ttl > 0 {
			if err := s.redis.Set(c.UserContext(), cache.RevokedTokenKey(jti), "1", ttl).Err(); err != nil {
				return s.respondError(c, models.NewInternalError(err))
			}
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// generateToken creates a JWT token for the given user ID
func (s *Server) generateToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(tokenLifetime).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID so a single token can be revoked
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
