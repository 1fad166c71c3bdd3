package models

import "time"

// Statuts possibles d'une pièce. Le statut est fixé à la création et ne change
// plus ensuite; la localisation reste le seul champ librement modifiable.
const (
	StatutReparable      = "REPARABLE"
	StatutNonReparable   = "NON_REPARABLE"
	StatutCannibalisable = "CANNIBALISABLE"
)

// Statuts lists the recognized statut values, in display order.
var Statuts = []string{StatutReparable, StatutNonReparable, StatutCannibalisable}

// ValidStatut reports whether s is a recognized statut value.
func ValidStatut(s string) bool {
	for _, v := range Statuts {
		if s == v {
			return true
		}
	}
	return false
}

// Piece est une pièce physique suivie par l'atelier.
type Piece struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Identifiant string `gorm:"size:40;not null;uniqueIndex" json:"identifiant"` // code lisible, unique, immuable
	TypePiece   string `json:"type_piece"`
	Statut      string `gorm:"not null;index" json:"statut"`
	// Localisation physique courante (texte libre), seul champ modifiable.
	Localisation string `json:"localisation"`
	DateEntree   string `json:"date_entree"` // date calendaire AAAA-MM-JJ, fixée à la création
	Origine      string `json:"origine"`
	// Référence QR opaque attribuée une seule fois; l'image elle-même est
	// produite et servie par un collaborateur externe à partir de ce nom.
	QrFilename        string    `gorm:"size:64;not null;uniqueIndex" json:"qr_filename"`
	TauxEndommagement *int      `json:"taux_endommagement"` // pourcentage 0-100, optionnel
	Commentaire       string    `json:"commentaire"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}
