// Command admin grants and revokes staff status.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"askme/internal/bootstrap"
	"askme/internal/config"
	"askme/internal/models"
	"askme/internal/repository"
	"askme/internal/service"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>   - Grant staff status")
		fmt.Println("  go run ./cmd/admin demote <user_id>    - Revoke staff status")
		fmt.Println("  go run ./cmd/admin list-staff          - List staff and superusers")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	users := service.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: go run ./cmd/admin %s <user_id>\n", command)
			os.Exit(1)
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil || id == 0 {
			log.Fatalf("Invalid user ID %q", os.Args[2])
		}
		user, err := users.SetStaff(ctx, uint(id), command == "promote")
		if err != nil {
			log.Fatalf("Failed to %s user %d: %v", command, id, err)
		}
		fmt.Printf("%s (ID: %d) staff=%t\n", user.Username, user.ID, user.IsStaff)
	case "list-staff":
		listStaff(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func listStaff(db *gorm.DB) {
	var staff []models.User
	if err := db.Where("is_staff = ? OR is_superuser = ?", true, true).Order("id").Find(&staff).Error; err != nil {
		log.Fatalf("Failed to fetch staff: %v", err)
	}
	if len(staff) == 0 {
		fmt.Println("No staff users found")
		return
	}
	for _, u := range staff {
		fmt.Printf("ID: %d | Username: %s | Email: %s | superuser=%t\n", u.ID, u.Username, u.Email, u.IsSuperuser)
	}
}
