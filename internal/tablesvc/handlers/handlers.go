package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/casillasalejandro22/mtg-table/internal/cardmeta"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/broker"
	"github.com/casillasalejandro22/mtg-table/internal/tablesvc/service"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth

	rooms  *service.RoomService
	lobby  *service.LobbyService
	decks  *service.DeckService
	zones  *service.ZoneService
	match  *service.MatchService
	cards  *cardmeta.Service
	broker *broker.Broker
}

func NewHandler(rooms *service.RoomService, lobby *service.LobbyService, decks *service.DeckService,
	zones *service.ZoneService, match *service.MatchService, cards *cardmeta.Service, b *broker.Broker) *Handler {
	return &Handler{
		rooms:  rooms,
		lobby:  lobby,
		decks:  decks,
		zones:  zones,
		match:  match,
		cards:  cards,
		broker: b,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps the service error taxonomy onto HTTP statuses. The
// messages are user-facing by construction, so they pass through as is.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case service.IsValidation(err):
		code = http.StatusBadRequest
	case service.IsAuthorization(err):
		code = http.StatusForbidden
	case service.IsNotFound(err) || errors.Is(err, cardmeta.ErrNotFound):
		code = http.StatusNotFound
	case service.IsConflict(err) || errors.Is(err, service.ErrEmptyLibrary):
		code = http.StatusConflict
	}

	if code == http.StatusInternalServerError {
		log.Errorf("internal error: %v", err)
		h.CreateResponse(w, Response{Code: code, Error: "internal error"})
		return
	}

	h.CreateResponse(w, Response{Code: code, Error: err.Error()})
}

// userID reads the authenticated user from the verified JWT. Identity is
// never taken from the request body.
func (h *Handler) userID(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", err
	}

	uid, ok := claims["user_id"].(string)
	if !ok || uid == "" {
		return "", errors.New("token carries no user_id claim")
	}
	return uid, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "table service is running at port " + os.Getenv("TABLE_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode health response: %v", err)
	}
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"user_id": "00000000-0000-0000-0000-000000000001",
		"exp":     expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}
