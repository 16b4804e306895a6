// Package main provides admin management utilities for RecipeBox.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/models"
	"recipebox/internal/repository"

	"gorm.io/gorm"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin fix-roles                          - Give the user role to accounts without one")
	fmt.Println("  go run ./cmd/admin promote <user_id>                  - Promote user to admin")
	fmt.Println("  go run ./cmd/admin demote <user_id>                   - Demote user from admin")
	fmt.Println("  go run ./cmd/admin list-admins                        - List all admins")
	fmt.Println("  go run ./cmd/admin set-recipe-image <recipe_id> <url> - Replace a recipe's primary image")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "fix-roles":
		fixRoles(ctx, db)

	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <user_id>")
			os.Exit(1)
		}
		setRole(ctx, db, os.Args[2], models.RoleAdmin)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <user_id>")
			os.Exit(1)
		}
		setRole(ctx, db, os.Args[2], models.RoleUser)

	case "list-admins":
		listAdmins(ctx, db)

	case "set-recipe-image":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin set-recipe-image <recipe_id> <url>")
			os.Exit(1)
		}
		setRecipeImage(ctx, db, os.Args[2], os.Args[3])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		fmt.Printf("Invalid ID: %s\n", raw)
		os.Exit(1)
	}
	return uint(id)
}

func fixRoles(ctx context.Context, db *gorm.DB) {
	found, updated, err := repository.NewUserRepository(db).BackfillRoles(ctx)
	if err != nil {
		log.Fatalf("Failed to backfill roles: %v", err)
	}
	fmt.Printf("Found %d users without a role\n", found)
	fmt.Printf("✅ Updated %d users to role %q\n", updated, models.RoleUser)
}

func setRole(ctx context.Context, db *gorm.DB, rawID, role string) {
	users := repository.NewUserRepository(db)
	id := parseID(rawID)

	user, err := users.GetByID(ctx, id)
	if err != nil {
		if models.StatusFor(err) == http.StatusNotFound {
			fmt.Printf("User with ID %d not found\n", id)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}

	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %q\n", user.FullName, user.ID, role)
		return
	}

	if err := users.SetRole(ctx, user.ID, role); err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("✅ Successfully set role %q on %s (ID: %d)\n", role, user.FullName, user.ID)
}

func listAdmins(ctx context.Context, db *gorm.DB) {
	admins, err := repository.NewUserRepository(db).ListAdmins(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range admins {
		fmt.Printf("ID: %d | Name: %s | Email: %s\n", admin.ID, admin.FullName, admin.Email)
	}
	fmt.Println("─────────────────────────────────────")
}

func setRecipeImage(ctx context.Context, db *gorm.DB, rawID, url string) {
	id := parseID(rawID)
	if err := repository.NewRecipeRepository(db).SetImage(ctx, id, url); err != nil {
		if models.StatusFor(err) == http.StatusNotFound {
			fmt.Printf("Recipe with ID %d not found\n", id)
			os.Exit(1)
		}
		log.Fatalf("Failed to update recipe image: %v", err)
	}
	fmt.Printf("✅ Recipe %d now uses image %s\n", id, url)
}
