// Command main runs the database seeder for SkillSwap.
package main

import (
	"flag"
	"log"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	swapsPerUser := flag.Int("swaps", 3, "Swap requests sent by each generated user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixture := flag.String("fixture", "", `Load a YAML fixture instead of random data ("demo" for the built-in set)`)
	dryRun := flag.Bool("dry-run", false, "Log generated entities without writing them")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible runs (0 = time based)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *fixture != "" {
		log.Printf("Fixture: %s (ignoring -users and -swaps)\n", *fixture)
	} else {
		log.Printf("Target: %d users, %d swaps each, clean=%v\n", *numUsers, *swapsPerUser, *shouldClean)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	_, err = database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB, seed.Options{
		NumUsers:     *numUsers,
		SwapsPerUser: *swapsPerUser,
		ShouldClean:  *shouldClean,
		DryRun:       *dryRun,
		RandSeed:     *randSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	var res *seed.Result
	if *fixture != "" {
		var fx *seed.Fixture
		if *fixture == "demo" {
			fx, err = seed.DemoFixture()
		} else {
			fx, err = seed.LoadFixture(*fixture)
		}
		if err != nil {
			log.Fatalf("❌ Invalid fixture: %v", err)
		}
		res, err = seed.ApplyFixture(database.DB, fx)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	} else {
		res, err = s.Run()
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Printf("✨ All done! %d users, %d skills, %d swaps, %d reviews.", res.Users, res.Skills, res.Swaps, res.Reviews)
	log.Printf("📧 All test users have the password: %s", seed.DemoPassword)
}
