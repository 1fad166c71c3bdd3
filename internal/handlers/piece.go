package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/msidibe/gpr/auth"
	"github.com/msidibe/gpr/httpx"
	"github.com/msidibe/gpr/internal/services"
)

type PieceHandler struct {
	Svc *services.Facade
}

func NewPieceHandler(svc *services.Facade) *PieceHandler { return &PieceHandler{Svc: svc} }

func (h *PieceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pieces", h.list)
	mux.HandleFunc("GET /api/piece/{identifiant}", h.get)
	mux.HandleFunc("POST /api/piece", h.create)
	mux.HandleFunc("POST /api/piece/{id}/localisation", h.updateLocalisation)
	mux.HandleFunc("GET /api/historique/{id}", h.historique)
	mux.HandleFunc("GET /api/indicateurs", h.indicateurs)
}

func (h *PieceHandler) list(w http.ResponseWriter, r *http.Request) {
	pieces, err := h.Svc.ListParts()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pieces)
}

func (h *PieceHandler) get(w http.ResponseWriter, r *http.Request) {
	piece, err := h.Svc.GetPart(r.PathValue("identifiant"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, piece)
}

func (h *PieceHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Identifiant       string `json:"identifiant"`
		TypePiece         string `json:"type_piece"`
		Statut            string `json:"statut"`
		Localisation      string `json:"localisation"`
		DateEntree        string `json:"date_entree"`
		Origine           string `json:"origine"`
		TauxEndommagement *int   `json:"taux_endommagement"`
		Commentaire       string `json:"commentaire"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	token, _ := auth.TokenFromRequest(r)
	piece, err := h.Svc.RegisterPart(r.Context(), token, services.PieceInput{
		Identifiant:       body.Identifiant,
		TypePiece:         body.TypePiece,
		Statut:            body.Statut,
		Localisation:      body.Localisation,
		DateEntree:        body.DateEntree,
		Origine:           body.Origine,
		TauxEndommagement: body.TauxEndommagement,
		Commentaire:       body.Commentaire,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, piece)
}

func (h *PieceHandler) updateLocalisation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var body struct {
		Localisation string `json:"localisation"`
		Commentaire  string `json:"commentaire"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	token, _ := auth.TokenFromRequest(r)
	if err := h.Svc.UpdateLocation(r.Context(), token, uint(id), body.Localisation, body.Commentaire); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.OK(w)
}

func (h *PieceHandler) historique(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	entries, err2 := h.Svc.GetHistory(uint(id))
	if err2 != nil {
		writeServiceError(w, err2)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *PieceHandler) indicateurs(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Kpis()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}
