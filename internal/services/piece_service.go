// Package services holds the access-controlled mutation facade: the only
// writer-facing entry point of the core. Every mutation resolves the session
// role, passes the gate, then applies the registry write and its audit entry
// as one transaction under the piece's lock.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/msidibe/gpr/auth"
	"github.com/msidibe/gpr/gate"
	"github.com/msidibe/gpr/internal/audit"
	"github.com/msidibe/gpr/internal/models"
	"github.com/msidibe/gpr/internal/qr"
	"github.com/msidibe/gpr/internal/registry"
	"github.com/msidibe/gpr/validation"
)

const resourcePiece = "piece"

type Facade struct {
	db       *gorm.DB
	sessions *auth.Store
	gate     *gate.Gate[string]
	registry *registry.Registry
	audit    *audit.Log
	kpi      *registry.Aggregator
	alloc    qr.Allocator
	locks    *pieceLocks
}

func NewFacade(db *gorm.DB, sessions *auth.Store) *Facade {
	g := gate.NewGate[string]()
	g.Register(resourcePiece, gate.RolePolicy{
		gate.ActionCreate: {models.RoleMaint},
		gate.ActionUpdate: {models.RoleLog},
	})
	return &Facade{
		db:       db,
		sessions: sessions,
		gate:     g,
		registry: registry.New(db),
		audit:    audit.New(db),
		kpi:      registry.NewAggregator(db),
		locks:    newPieceLocks(),
	}
}

// roleFor resolves a session token to a role; guests resolve to "".
func (s *Facade) roleFor(token string) string {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return ""
	}
	return sess.Role
}

// Login checks credentials and opens a session. The error never distinguishes
// an unknown username from a wrong password.
func (s *Facade) Login(ctx context.Context, username, password string) (token, role string, err error) {
	var user models.User
	if dbErr := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", storageErr(dbErr)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}
	token = s.sessions.Create(user.Username, user.Role)
	return token, user.Role, nil
}

// Logout invalidates the session. Idempotent.
func (s *Facade) Logout(token string) {
	s.sessions.Delete(token)
}

// WhoAmI resolves a token to its session; ok is false for guests.
func (s *Facade) WhoAmI(token string) (auth.Session, bool) {
	return s.sessions.Get(token)
}

// PieceInput carries the caller-supplied fields for a new piece.
type PieceInput struct {
	Identifiant       string
	TypePiece         string
	Statut            string
	Localisation      string
	DateEntree        string
	Origine           string
	TauxEndommagement *int
	Commentaire       string
}

// RegisterPart creates a piece and its CREATED historique entry atomically.
// Requires role MAINT. No mutation is attempted before validation passes.
func (s *Facade) RegisterPart(ctx context.Context, token string, in PieceInput) (*models.Piece, error) {
	role := s.roleFor(token)
	if err := s.gate.Authorize(ctx, role, gate.ActionCreate, resourcePiece, nil); err != nil {
		return nil, err
	}

	identifiant := strings.ToUpper(strings.TrimSpace(in.Identifiant))
	v := validation.Violations{}
	validation.Required("identifiant", identifiant, v)
	validation.Required("statut", in.Statut, v)
	if in.Statut != "" {
		validation.OneOf("statut", in.Statut, models.Statuts, v)
	}
	if in.TauxEndommagement != nil {
		validation.IntRange("taux_endommagement", *in.TauxEndommagement, 0, 100, v)
	}
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	dateEntree := strings.TrimSpace(in.DateEntree)
	if dateEntree == "" {
		dateEntree = time.Now().Format("2006-01-02")
	}

	piece := &models.Piece{
		Identifiant:       identifiant,
		TypePiece:         in.TypePiece,
		Statut:            in.Statut,
		Localisation:      in.Localisation,
		DateEntree:        dateEntree,
		Origine:           in.Origine,
		TauxEndommagement: in.TauxEndommagement,
		Commentaire:       in.Commentaire,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg := s.registry.WithTx(tx)
		taken, err := reg.ExistsIdentifiant(identifiant)
		if err != nil {
			return storageErr(err)
		}
		if taken {
			return &ValidationError{Violations: validation.Violations{"identifiant": "already_taken"}}
		}
		piece.QrFilename = s.alloc.Allocate(identifiant)
		if used, err := reg.ExistsQrFilename(piece.QrFilename); err != nil {
			return storageErr(err)
		} else if used {
			piece.QrFilename = s.alloc.Disambiguate(identifiant)
		}
		if err := reg.Create(piece); err != nil {
			if isDuplicateErr(err) {
				// lost a race on the unique index
				return &ValidationError{Violations: validation.Violations{"identifiant": "already_taken"}}
			}
			return storageErr(err)
		}
		if _, err := s.audit.WithTx(tx).Append(piece.ID, role, models.ActionCreated, "création + QR"); err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return piece, nil
}

// UpdateLocation overwrites a piece's localisation and appends the matching
// LOCATION_UPDATED entry atomically. Requires role LOG. The piece's lock is
// held across the pair so concurrent updates serialize per piece.
func (s *Facade) UpdateLocation(ctx context.Context, token string, pieceID uint, localisation, commentaire string) error {
	role := s.roleFor(token)
	if err := s.gate.Authorize(ctx, role, gate.ActionUpdate, resourcePiece, nil); err != nil {
		return err
	}
	localisation = strings.TrimSpace(localisation)
	if localisation == "" {
		return &ValidationError{Violations: validation.Violations{"localisation": "required"}}
	}
	if commentaire == "" {
		commentaire = localisation
	}

	mu := s.locks.get(pieceID)
	mu.Lock()
	defer mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.registry.WithTx(tx).UpdateLocalisation(pieceID, localisation); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageErr(err)
		}
		if _, err := s.audit.WithTx(tx).Append(pieceID, role, models.ActionLocationUpdated, commentaire); err != nil {
			return storageErr(err)
		}
		return nil
	})
}

// ListParts returns all pieces ordered by id ascending.
func (s *Facade) ListParts() ([]models.Piece, error) {
	pieces, err := s.registry.ListAll()
	if err != nil {
		return nil, storageErr(err)
	}
	return pieces, nil
}

// GetPart looks a piece up by its identifiant.
func (s *Facade) GetPart(identifiant string) (*models.Piece, error) {
	p, err := s.registry.GetByIdentifiant(identifiant)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return p, nil
}

// GetHistory returns a piece's historique, oldest first.
func (s *Facade) GetHistory(pieceID uint) ([]models.Historique, error) {
	entries, err := s.audit.ListForPiece(pieceID)
	if err != nil {
		return nil, storageErr(err)
	}
	return entries, nil
}

// Kpis computes the live counter snapshot.
func (s *Facade) Kpis() (registry.Snapshot, error) {
	snap, err := s.kpi.Snapshot()
	if err != nil {
		return registry.Snapshot{}, storageErr(err)
	}
	return snap, nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
