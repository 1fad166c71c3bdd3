// Package audit owns the append-only historique of piece actions. Entries are
// immutable once written and ordered by date_action non-decreasing per piece.
package audit

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/msidibe/gpr/internal/models"
)

type Log struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Log { return &Log{db: db} }

// WithTx returns a log bound to tx, so the audit entry lands in the same
// transaction as the registry write it describes.
func (l *Log) WithTx(tx *gorm.DB) *Log { return &Log{db: tx} }

// Append writes one entry with a server-assigned timestamp. The timestamp is
// clamped to the piece's latest entry so per-piece order survives clock
// regression. Callers must hold the piece's write lock across the registry
// write and this append.
func (l *Log) Append(pieceID uint, role, action, commentaire string) (*models.Historique, error) {
	now := time.Now().UTC()
	var last models.Historique
	err := l.db.Where("piece_id = ?", pieceID).
		Order("date_action desc").Order("id desc").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && now.Before(last.DateAction) {
		now = last.DateAction
	}
	entry := models.Historique{
		PieceID:     pieceID,
		Action:      action,
		DateAction:  now,
		Role:        role,
		Commentaire: commentaire,
	}
	if err := l.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForPiece returns the piece's entries ordered by date_action ascending
// (id as tiebreak). Empty slice when the piece has no history.
func (l *Log) ListForPiece(pieceID uint) ([]models.Historique, error) {
	entries := []models.Historique{}
	if err := l.db.Where("piece_id = ?", pieceID).
		Order("date_action asc").Order("id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
