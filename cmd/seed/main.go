// Command main runs the database seeder for CollabHub.
package main

import (
	"flag"
	"log"

	"collabhub/internal/config"
	"collabhub/internal/database"
	"collabhub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numCollabs := flag.Int("collabs", 80, "Number of collabs to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("fast", false, "Skip bcrypt hashing for faster seeding (logins won't work)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d collabs, clean=%v\n", *numUsers, *numCollabs, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumCollabs:  *numCollabs,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	// Fixtures go in after the optional clean so they survive it.
	if err := seed.Fixtures(db); err != nil {
		log.Fatalf("❌ Fixture seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Println("📧 All demo users have the password: password123")
}
