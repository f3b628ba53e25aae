// seed-admin creates or updates the console operator used by count teams
// (username: countsAdmin).
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/tallyworks/counts_backend/config"
	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"gorm.io/gorm"
)

const (
	adminUsername = "countsAdmin"
	adminName     = "Counts Admin"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD is required")
		os.Exit(2)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.Operator
	err = db.WithContext(ctx).Where("username = ?", adminUsername).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup operator: %v\n", err)
			os.Exit(1)
		}
		op := models.Operator{
			Username: adminUsername,
			Name:     adminName,
			Password: hashedStr,
			IsActive: true,
		}
		if err := db.WithContext(ctx).Create(&op).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create operator: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created operator %q (id=%d)\n", adminUsername, op.Id)
		return
	}

	existing.Password = hashedStr
	existing.IsActive = true
	if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update operator: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("updated operator %q (id=%d)\n", adminUsername, existing.Id)
}
