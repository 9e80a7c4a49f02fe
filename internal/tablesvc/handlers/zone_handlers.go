package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

func (h *Handler) GetHand(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	hand, err := h.zones.Hand(r.Context(), chi.URLParam(r, "matchID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "hand", Code: http.StatusOK, Data: hand})
}

func (h *Handler) Draw(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	match, card, prevIndex, seat, err := h.zones.Draw(r.Context(), chi.URLParam(r, "matchID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	prev := *card
	prev.Zone = models.ZoneLibrary
	prev.LibraryIndex = &prevIndex
	h.broker.PublishMatchCardMove(match.RoomID, &prev, card)
	h.broker.PublishMatchPlayerUpdate(match.RoomID, seat)

	h.CreateResponse(w, Response{
		Message: "card drawn",
		Code:    http.StatusOK,
		Data: map[string]interface{}{
			"card": card,
			"seat": seat,
		},
	})
}

type cardRequest struct {
	CardID string `json:"card_id"`
}

func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	h.moveFromHand(w, r, models.ZoneBattlefield)
}

func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	h.moveFromHand(w, r, models.ZoneGraveyard)
}

func (h *Handler) Exile(w http.ResponseWriter, r *http.Request) {
	h.moveFromHand(w, r, models.ZoneExile)
}

func (h *Handler) moveFromHand(w http.ResponseWriter, r *http.Request, toZone string) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req cardRequest
	if err := decodeBody(r, &req); err != nil || req.CardID == "" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "card_id is required"})
		return
	}

	matchID := chi.URLParam(r, "matchID")

	var (
		match *models.Match
		card  *models.MatchCard
		seat  *models.MatchPlayer
	)
	switch toZone {
	case models.ZoneBattlefield:
		match, card, seat, err = h.zones.Play(r.Context(), matchID, userID, req.CardID)
	case models.ZoneGraveyard:
		match, card, seat, err = h.zones.Discard(r.Context(), matchID, userID, req.CardID)
	case models.ZoneExile:
		match, card, seat, err = h.zones.Exile(r.Context(), matchID, userID, req.CardID)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	prev := *card
	prev.Zone = models.ZoneHand
	h.broker.PublishMatchCardMove(match.RoomID, &prev, card)
	h.broker.PublishMatchPlayerUpdate(match.RoomID, seat)

	h.CreateResponse(w, Response{
		Message: "card moved",
		Code:    http.StatusOK,
		Data: map[string]interface{}{
			"card": card,
			"seat": seat,
		},
	})
}

func (h *Handler) Mulligan(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	match, returned, seat, err := h.zones.Mulligan(r.Context(), chi.URLParam(r, "matchID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// The reshuffled rows all sit in hidden zones, so the counter update is
	// the only change observers need.
	h.broker.PublishMatchPlayerUpdate(match.RoomID, seat)

	h.CreateResponse(w, Response{
		Message: "hand returned and library reshuffled",
		Code:    http.StatusOK,
		Data: map[string]interface{}{
			"returned": returned,
			"seat":     seat,
		},
	})
}

type lifeRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) AdjustLife(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req lifeRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}
	if req.Delta == 0 {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "delta cannot be zero"})
		return
	}

	match, seat, err := h.zones.AdjustLife(r.Context(), chi.URLParam(r, "matchID"), userID, req.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishMatchPlayerUpdate(match.RoomID, seat)

	h.CreateResponse(w, Response{Message: "life adjusted", Code: http.StatusOK, Data: seat})
}

type zoneAdjustRequest struct {
	Zone  string `json:"zone"`
	Delta int    `json:"delta"`
}

func (h *Handler) AdjustZone(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req zoneAdjustRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}

	match, seat, err := h.zones.AdjustZone(r.Context(), chi.URLParam(r, "matchID"), userID, req.Zone, req.Delta)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishMatchPlayerUpdate(match.RoomID, seat)

	h.CreateResponse(w, Response{Message: "zone count adjusted", Code: http.StatusOK, Data: seat})
}
