// Command main runs the database seeder for the Sehhaty portal.
package main

import (
	"flag"
	"log"

	"sehhaty/internal/config"
	"sehhaty/internal/database"
	"sehhaty/internal/seed"
)

func main() {
	numCitizens := flag.Int("citizens", 40, "Number of citizen accounts to create")
	numRequests := flag.Int("requests", 150, "Number of requests to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d citizens, %d requests, clean=%v\n", *numCitizens, *numRequests, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if _, err := seed.EnsureAdminAccount(database.DB, cfg); err != nil {
		log.Fatalf("❌ Admin bootstrap failed: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	accounts, err := s.SeedCitizens(*numCitizens)
	if err != nil {
		log.Fatalf("❌ Citizen seeding failed: %v", err)
	}
	if err := s.SeedRequests(accounts, *numRequests); err != nil {
		log.Fatalf("❌ Request seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("🔑 Administrator login: national ID %q with the configured ADMIN_PASSWORD.", "admin")
}
