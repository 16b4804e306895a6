// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"recipebox/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateEmail checks the shape of an email address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if !IsValidEmail(strings.TrimSpace(email)) {
		return fmt.Errorf("please provide a valid email address")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	return nil
}

// ValidateFullName requires a non-blank name of at most 100 characters.
func ValidateFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("full name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("full name must not exceed 100 characters")
	}
	return nil
}

// ValidateBio enforces the profile bio limit.
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > 500 {
		return fmt.Errorf("bio must not exceed 500 characters")
	}
	return nil
}

// ValidateReview checks a rating and comment pair.
func ValidateReview(rating int, comment string) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return fmt.Errorf("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("comment is required")
	}
	if utf8.RuneCountInString(comment) > models.MaxCommentLength {
		return fmt.Errorf("comment cannot exceed %d characters", models.MaxCommentLength)
	}
	return nil
}

// ValidateRecipe checks the required content fields of a recipe.
func ValidateRecipe(r *models.Recipe) error {
	switch {
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("title is required")
	case strings.TrimSpace(r.Description) == "":
		return fmt.Errorf("description is required")
	case strings.TrimSpace(r.Image) == "":
		return fmt.Errorf("image is required")
	case r.PrepTime <= 0:
		return fmt.Errorf("prep time must be greater than zero")
	case strings.TrimSpace(r.Difficulty) == "":
		return fmt.Errorf("difficulty is required")
	case strings.TrimSpace(r.Category) == "":
		return fmt.Errorf("category is required")
	case strings.TrimSpace(r.Cuisine) == "":
		return fmt.Errorf("cuisine is required")
	case strings.TrimSpace(r.Diet) == "":
		return fmt.Errorf("diet is required")
	case r.Serves <= 0:
		return fmt.Errorf("serves must be greater than zero")
	case len(nonBlank(r.Ingredients)) == 0:
		return fmt.Errorf("at least one ingredient is required")
	case len(nonBlank(r.Instructions)) == 0:
		return fmt.Errorf("at least one instruction is required")
	case r.Calories != nil && *r.Calories < 0:
		return fmt.Errorf("calories cannot be negative")
	}
	return nil
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
