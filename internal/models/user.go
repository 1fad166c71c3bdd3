package models

import "time"

// Rôles applicatifs. Les rôles ne sont pas portés par les pièces: ils
// conditionnent les opérations globalement, par session.
const (
	RoleMaint = "MAINT" // peut enregistrer de nouvelles pièces
	RoleLog   = "LOG"   // peut mettre à jour la localisation
)

// User & auth related models
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"unique;not null;index"`
	PasswordHash string `gorm:"not null"` // hashé (bcrypt)
	Role         string `gorm:"not null"` // MAINT ou LOG
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
