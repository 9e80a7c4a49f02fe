package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/decklist"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/models"
)

type deckRequest struct {
	Name string `json:"name"`
	List string `json:"list"`
}

// deckResponse carries a deck, its rows and whether the deck currently
// passes the format rule. The violated rule rides along so the lobby can
// show it next to the deck picker.
type deckResponse struct {
	Deck    *models.Deck       `json:"deck"`
	Cards   []*models.DeckCard `json:"cards"`
	IsValid bool               `json:"is_valid"`
	Invalid string             `json:"invalid_reason,omitempty"`
}

func newDeckResponse(deck *models.Deck, cards []*models.DeckCard) deckResponse {
	resp := deckResponse{Deck: deck, Cards: cards, IsValid: true}
	if err := decklist.Validate(cards); err != nil {
		resp.IsValid = false
		resp.Invalid = err.Error()
	}
	return resp
}

func (h *Handler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req deckRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}

	deck, cards, err := h.decks.Import(r.Context(), userID, req.Name, req.List)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck imported", Code: http.StatusCreated, Data: newDeckResponse(deck, cards)})
}

func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	decks, err := h.decks.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "decks", Code: http.StatusOK, Data: decks})
}

func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	deck, cards, err := h.decks.Get(r.Context(), userID, chi.URLParam(r, "deckID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck", Code: http.StatusOK, Data: newDeckResponse(deck, cards)})
}

func (h *Handler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req deckRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}

	deck, cards, err := h.decks.Update(r.Context(), userID, chi.URLParam(r, "deckID"), req.Name, req.List)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck updated", Code: http.StatusOK, Data: newDeckResponse(deck, cards)})
}

func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	if err := h.decks.Delete(r.Context(), userID, chi.URLParam(r, "deckID")); err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "deck deleted", Code: http.StatusOK})
}

type commanderRequest struct {
	CardName string `json:"card_name"`
}

func (h *Handler) SetCommander(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req commanderRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}

	if err := h.decks.SetCommander(r.Context(), userID, chi.URLParam(r, "deckID"), req.CardName); err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "commander set", Code: http.StatusOK})
}
