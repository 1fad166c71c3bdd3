package registry

import (
	"gorm.io/gorm"

	"github.com/msidibe/gpr/internal/models"
)

// Snapshot is the derived per-statut count set. Never cached: always computed
// from the registry at call time, so a read right after a write sees it.
type Snapshot struct {
	Total          int64 `json:"total"`
	Reparable      int64 `json:"reparable"`
	NonReparable   int64 `json:"non_reparable"`
	Cannibalisable int64 `json:"cannibalisable"`
}

// Aggregator computes KPI snapshots from the piece table.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator { return &Aggregator{db: db} }

func (a *Aggregator) Snapshot() (Snapshot, error) {
	var rows []struct {
		Statut string
		N      int64
	}
	if err := a.db.Model(&models.Piece{}).
		Select("statut, count(*) as n").
		Group("statut").
		Scan(&rows).Error; err != nil {
		return Snapshot{}, err
	}
	var s Snapshot
	for _, row := range rows {
		s.Total += row.N
		switch row.Statut {
		case models.StatutReparable:
			s.Reparable = row.N
		case models.StatutNonReparable:
			s.NonReparable = row.N
		case models.StatutCannibalisable:
			s.Cannibalisable = row.N
		}
	}
	return s, nil
}
