// Command main runs the database seeder for RecipeBox.
package main

import (
	"context"
	"flag"
	"log"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	recipesPerUser := flag.Int("recipes", 3, "Number of recipes per user")
	maxReviews := flag.Int("reviews", 6, "Maximum reviews per recipe")
	maxDays := flag.Int("days", 180, "Spread creation dates over this many past days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing them")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d recipes each, up to %d reviews per recipe, clean=%v\n",
		*numUsers, *recipesPerUser, *maxReviews, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	s := seed.NewSeeder(db, seed.Options{
		Users:          *numUsers,
		RecipesPerUser: *recipesPerUser,
		MaxReviews:     *maxReviews,
		MaxDays:        *maxDays,
		DryRun:         *dryRun,
	})

	if *shouldClean && !*dryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if _, err := s.Run(context.Background()); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DemoPassword)
	log.Printf("🔑 Admin login: %s", seed.AdminEmail)
}
