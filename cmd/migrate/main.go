package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kvist-io/settingstore/internal/database"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Run migrations
	if err := database.RunMigrations(); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	log.Println("Migrations completed successfully")
}
