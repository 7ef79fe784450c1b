package main

import (
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/localmarket/commercehub/internal/config"
	"github.com/localmarket/commercehub/internal/database"
	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/utils"
)

// Seeds the initial admin account. Admins cannot self-register through the
// API outside of test mode, so this is how the first one comes to exist.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed:", err)
	}

	adminName := os.Getenv("ADMIN_NAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminCity := os.Getenv("ADMIN_CITY")

	if adminName == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_NAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}
	if adminCity == "" {
		adminCity = "Madrid"
	}

	var admin models.User
	result := db.Conn.Where("email = ?", adminEmail).First(&admin)
	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Email)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Name:         adminName,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Age:          0,
		City:         adminCity,
		Interest:     models.StringList{},
		AllowOffers:  false,
		Role:         models.RoleAdmin,
	}

	if err := db.Conn.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully:", admin.Email)
}
