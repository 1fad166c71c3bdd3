package db

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/msidibe/gpr/internal/models"
)

// seedUsers installs the two default accounts (one per role) if they are
// missing. Idempotent: an existing username is never touched.
func seedUsers(db *gorm.DB) {
	defaults := []struct {
		username string
		password string
		role     string
	}{
		{"main", "main123", models.RoleMaint},
		{"log", "log123", models.RoleLog},
	}
	for _, u := range defaults {
		var existing models.User
		if err := db.Where("username = ?", u.username).First(&existing).Error; err == gorm.ErrRecordNotFound {
			hash, herr := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
			if herr != nil {
				continue
			}
			db.Create(&models.User{Username: u.username, PasswordHash: string(hash), Role: u.role})
		}
	}
}
