package models

import "time"

// Actions journalisées dans l'historique.
const (
	ActionCreated         = "CREATED"
	ActionLocationUpdated = "LOCATION_UPDATED"
)

// Historique est une entrée immuable du journal d'audit d'une pièce.
// Les entrées d'une même pièce sont ordonnées par DateAction croissante;
// chaque mutation d'une pièce écrit exactement une entrée dans la même
// transaction que la mutation.
type Historique struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PieceID     uint      `gorm:"not null;index:idx_piece_date,priority:1" json:"piece_id"`
	Action      string    `gorm:"not null" json:"action"`
	DateAction  time.Time `gorm:"not null;index:idx_piece_date,priority:2" json:"date_action"`
	Role        string    `json:"role"` // rôle de l'acteur au moment de l'action
	Commentaire string    `json:"commentaire"`
}
