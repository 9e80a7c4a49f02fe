package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

type createRoomRequest struct {
	Nickname string `json:"nickname"`
}

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req createRoomRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}
	if req.Nickname == "" {
		req.Nickname = "Player"
	}

	room, owner, err := h.rooms.CreateRoom(r.Context(), userID, req.Nickname)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishRoomPlayerInsert(owner)

	h.CreateResponse(w, Response{
		Message: "room created",
		Code:    http.StatusOK,
		Data: map[string]interface{}{
			"room": room,
			"seat": owner,
		},
	})
}

type joinRoomRequest struct {
	Pin      string `json:"pin"`
	Nickname string `json:"nickname"`
}

func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req joinRoomRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}
	if req.Nickname == "" {
		req.Nickname = "Player"
	}

	room, seat, created, err := h.rooms.JoinRoom(r.Context(), req.Pin, userID, req.Nickname)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if created {
		h.broker.PublishRoomPlayerInsert(seat)
	} else {
		h.broker.PublishRoomPlayerUpdate(seat)
	}

	h.CreateResponse(w, Response{
		Message: "joined room",
		Code:    http.StatusOK,
		Data: map[string]interface{}{
			"room": room,
			"seat": seat,
		},
	})
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	if _, err := h.userID(r); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	room, err := h.rooms.GetByPin(r.Context(), chi.URLParam(r, "pin"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	players, err := h.rooms.ListPlayers(r.Context(), room.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Code: http.StatusOK,
		Data: map[string]interface{}{
			"room":    room,
			"players": players,
		},
	})
}

func (h *Handler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	seat, err := h.rooms.Leave(r.Context(), chi.URLParam(r, "roomID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishRoomPlayerDelete(seat)

	h.CreateResponse(w, Response{Message: "left room", Code: http.StatusOK})
}

type kickRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) KickPlayer(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req kickRequest
	if err := decodeBody(r, &req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "malformed request body"})
		return
	}

	seat, err := h.rooms.Kick(r.Context(), chi.URLParam(r, "roomID"), userID, req.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishRoomPlayerDelete(seat)

	h.CreateResponse(w, Response{Message: "player kicked", Code: http.StatusOK})
}

func (h *Handler) CloseRoom(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	room, err := h.rooms.CloseRoom(r.Context(), chi.URLParam(r, "roomID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.broker.PublishRoomUpdate(room)

	h.CreateResponse(w, Response{Message: "room closed", Code: http.StatusOK, Data: room})
}
