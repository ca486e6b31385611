package database

import (
	"log"

	"despensa-backend/config"
	"despensa-backend/internal/models"
	"despensa-backend/internal/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var defaultCategories = []string{"Grains", "Dairy", "Beverages", "Canned", "Cleaning"}

// SeedAdminAndDefaults creates the owner account, its settings row and a
// starter category set on first boot. Safe to call on every start.
func SeedAdminAndDefaults() {
	defaults := config.AppConfig.Defaults

	var admin models.User
	err := DB.Where("username = ?", defaults.AdminUsername).First(&admin).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("Failed to look up admin user: %v", err)
			return
		}

		passwordHash, _ := utils.HashPassword(defaults.AdminPassword)
		pinHash, _ := utils.HashPassword(defaults.AdminPin)
		admin = models.User{
			Username:     defaults.AdminUsername,
			PasswordHash: passwordHash,
			PinHash:      pinHash,
			BusinessName: defaults.BusinessName,
			Email:        defaults.BusinessEmail,
			Phone:        defaults.BusinessPhone,
			IsActive:     true,
		}
		if err := DB.Create(&admin).Error; err != nil {
			log.Printf("Failed to seed admin user: %v", err)
			return
		}
		log.Println("Admin user seeded.")
	}

	var settings models.Settings
	if err := DB.Where("user_id = ?", admin.ID).First(&settings).Error; err == gorm.ErrRecordNotFound {
		settings = models.Settings{
			UserID: admin.ID,
			Data: datatypes.JSON([]byte(`{
				"notifications": {"low_stock": true, "collections": true, "new_orders": true},
				"payment_methods": {"cash": true, "card": true, "transfer": true}
			}`)),
		}
		if err := DB.Create(&settings).Error; err != nil {
			log.Printf("Failed to seed settings: %v", err)
		}
	}

	for _, name := range defaultCategories {
		var category models.Category
		if err := DB.FirstOrCreate(&category, models.Category{UserID: admin.ID, Name: name}).Error; err != nil {
			log.Printf("Failed to seed category %s: %v", name, err)
		}
	}
}
