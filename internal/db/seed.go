package db

import (
	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// seed creates a development login when the database has no users yet.
// Safe to run repeatedly.
func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Email:    "dev@example.com",
		Name:     "Dev User",
		Password: string(hash),
	}).Error
}
