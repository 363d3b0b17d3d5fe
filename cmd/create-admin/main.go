// Command create-admin generates a dashboard account with random
// credentials and prints them once.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"gorm.io/gorm"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/database"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// generateRandomString creates a random hex string of length n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueUsername tries until a unique username is found
func generateUniqueUsername(db *gorm.DB) string {
	for {
		username := "admin_" + generateRandomString(4)
		var count int64
		db.Model(&model.AdminUser{}).Where("username = ?", username).Count(&count)
		if count == 0 {
			return username
		}
		// If username exists, loop again
	}
}

func main() {
	cfg := config.Load()

	db, err := database.NewService(database.NewConfig(cfg))
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}

	username := generateUniqueUsername(db.DB)
	password := generateRandomString(8)

	hashedPassword, err := utilities.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	admin := model.AdminUser{
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin: ", err)
	}

	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Username: %s\n", admin.Username)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")

	os.Exit(0)
}
