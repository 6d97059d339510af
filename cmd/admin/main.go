// Package main provides admin management utilities for SkillSwap.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/models"
	"skillswap/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
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
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: go run ./cmd/admin/main.go %s <user_id>\n", os.Args[1])
			os.Exit(1)
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil || id == 0 {
			fmt.Printf("Invalid user ID %q\n", os.Args[2])
			os.Exit(1)
		}
		if err := setAdmin(ctx, users, uint(id), os.Args[1] == "promote"); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

	case "list-admins":
		if err := listAdmins(ctx, users); err != nil {
			log.Fatalf("Database error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin/main.go promote <user_id>     - Promote user to admin")
	fmt.Println("  go run ./cmd/admin/main.go demote <user_id>      - Demote user from admin")
	fmt.Println("  go run ./cmd/admin/main.go list-admins           - List all admins")
}

func setAdmin(ctx context.Context, users repository.UserRepository, id uint, admin bool) error {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return fmt.Errorf("user with ID %d not found", id)
		}
		return err
	}

	if user.IsAdmin == admin {
		fmt.Printf("User %s (ID: %d) already has is_admin=%t\n", user.Email, user.ID, admin)
		return nil
	}

	if err := users.SetAdmin(ctx, id, admin); err != nil {
		return err
	}

	if admin {
		fmt.Printf("Promoted %s (ID: %d) to admin\n", user.Email, user.ID)
	} else {
		fmt.Printf("Demoted %s (ID: %d) from admin\n", user.Email, user.ID)
	}
	return nil
}

func listAdmins(ctx context.Context, users repository.UserRepository) error {
	admins, err := users.ListAdmins(ctx)
	if err != nil {
		return err
	}

	if len(admins) == 0 {
		fmt.Println("No admins found")
		return nil
	}

	fmt.Printf("Found %d admin(s):\n", len(admins))
	for _, a := range admins {
		fmt.Printf("  ID: %d, Name: %s, Email: %s\n", a.ID, a.DisplayName(), a.Email)
	}
	return nil
}
