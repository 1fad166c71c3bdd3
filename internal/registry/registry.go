// Package registry owns the canonical set of piece records and their current
// projection. All writes flow through the services facade; the registry itself
// performs no permission checks and writes no history.
package registry

import (
	"gorm.io/gorm"

	"github.com/msidibe/gpr/internal/models"
)

type Registry struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Registry { return &Registry{db: db} }

// WithTx returns a registry bound to tx, so callers can compose the piece
// write and its audit entry into one transaction.
func (r *Registry) WithTx(tx *gorm.DB) *Registry { return &Registry{db: tx} }

// Create inserts the piece. Field validation is the caller's concern; the
// unique indexes on identifiant and qr_filename are the last line of defense
// against concurrent duplicates.
func (r *Registry) Create(p *models.Piece) error {
	return r.db.Create(p).Error
}

func (r *Registry) GetByIdentifiant(identifiant string) (*models.Piece, error) {
	var p models.Piece
	if err := r.db.Where("identifiant = ?", identifiant).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Registry) GetByID(id uint) (*models.Piece, error) {
	var p models.Piece
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns every piece ordered by id ascending (creation order).
func (r *Registry) ListAll() ([]models.Piece, error) {
	pieces := []models.Piece{}
	if err := r.db.Order("id asc").Find(&pieces).Error; err != nil {
		return nil, err
	}
	return pieces, nil
}

// ExistsIdentifiant reports whether a piece already uses identifiant.
func (r *Registry) ExistsIdentifiant(identifiant string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Piece{}).Where("identifiant = ?", identifiant).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsQrFilename reports whether a piece already uses the QR reference.
func (r *Registry) ExistsQrFilename(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Piece{}).Where("qr_filename = ?", name).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLocalisation overwrites localisation and nothing else.
// Returns gorm.ErrRecordNotFound when id is unknown.
func (r *Registry) UpdateLocalisation(id uint, localisation string) error {
	res := r.db.Model(&models.Piece{}).Where("id = ?", id).Update("localisation", localisation)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
