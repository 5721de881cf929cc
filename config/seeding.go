package config

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"siteledger.app/api/models"
)

// SeedDemoAccount creates the demo owner used by App Store review builds.
// Skips silently when the account already exists or SEED_DEMO is unset.
func SeedDemoAccount() error {
	if os.Getenv("SEED_DEMO") == "" {
		return nil
	}

	email := "demo@siteledger.app"
	var existing models.User
	err := DB.Where("LOWER(email) = LOWER(?)", email).First(&existing).Error
	if err == nil {
		log.Printf("Demo account %s already exists, skipping seed", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	demo := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Demo Owner",
		Role:         models.RoleOwner,
		Active:       true,
	}
	if err := DB.Create(&demo).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded demo owner account %s", email)
	return nil
}
