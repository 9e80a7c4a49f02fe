package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

type chooseDeckRequest struct {
	DeckID *string `json:"deck_id"` // null clears the selection
}

func (h *Handler) ChooseDeck(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req chooseDeckRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}

	seat, err := h.lobby.ChooseDeck(r.Context(), chi.URLParam(r, "roomID"), userID, req.DeckID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishRoomPlayerUpdate(seat)

	h.CreateResponse(w, Response{Message: "deck selected", Code: http.StatusOK, Data: seat})
}

type renameRequest struct {
	Nickname string `json:"nickname"`
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req renameRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}

	seat, err := h.lobby.Rename(r.Context(), chi.URLParam(r, "roomID"), userID, req.Nickname)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishRoomPlayerUpdate(seat)

	h.CreateResponse(w, Response{Message: "nickname updated", Code: http.StatusOK, Data: seat})
}

func (h *Handler) ToggleReady(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	seat, err := h.lobby.ToggleReady(r.Context(), chi.URLParam(r, "roomID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishRoomPlayerUpdate(seat)

	h.CreateResponse(w, Response{Message: "readiness updated", Code: http.StatusOK, Data: seat})
}

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	result, err := h.lobby.StartMatch(r.Context(), chi.URLParam(r, "roomID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// Commit order: the match appears, its cards land, counters reset, and
	// only then does the room flip to started so clients navigate last.
	h.broker.PublishMatchInsert(result.Room.ID, result.Match)
	for _, card := range result.Cards {
		h.broker.PublishMatchCardInsert(result.Room.ID, card)
	}
	for _, seat := range result.Seats {
		h.broker.PublishMatchPlayerInsert(result.Room.ID, seat)
	}
	h.broker.PublishRoomUpdate(result.Room)

	h.CreateResponse(w, Response{
		Message: "match started",
		Code:    http.StatusOK,
		Data: map[string]interface{}{
			"match": result.Match,
			"seats": result.Seats,
		},
	})
}

func (h *Handler) EndMatch(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	match, room, err := h.lobby.EndMatch(r.Context(), chi.URLParam(r, "matchID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishMatchUpdate(room.ID, match)
	h.broker.PublishRoomUpdate(room)

	h.CreateResponse(w, Response{Message: "match ended", Code: http.StatusOK, Data: match})
}
