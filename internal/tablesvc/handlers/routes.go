package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes here

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/health", h.HealthHandler)

			r.Route("/rooms", func(r chi.Router) {
				r.Post("/", h.CreateRoom)
				r.Post("/join", h.JoinRoom)
				r.Get("/{pin}", h.GetRoom)
				r.Post("/{roomID}/leave", h.LeaveRoom)
				r.Post("/{roomID}/kick", h.KickPlayer)
				r.Post("/{roomID}/close", h.CloseRoom)

				r.Put("/{roomID}/deck", h.ChooseDeck)
				r.Put("/{roomID}/nickname", h.Rename)
				r.Put("/{roomID}/ready", h.ToggleReady)
				r.Post("/{roomID}/start", h.StartMatch)
			})

			r.Route("/matches", func(r chi.Router) {
				r.Post("/{matchID}/end", h.EndMatch)
				r.Get("/{matchID}/hand", h.GetHand)
				r.Post("/{matchID}/draw", h.Draw)
				r.Post("/{matchID}/play", h.Play)
				r.Post("/{matchID}/discard", h.Discard)
				r.Post("/{matchID}/exile", h.Exile)
				r.Post("/{matchID}/mulligan", h.Mulligan)
				r.Post("/{matchID}/zone-adjust", h.AdjustZone)
				r.Post("/{matchID}/life", h.AdjustLife)
			})

			r.Route("/decks", func(r chi.Router) {
				r.Post("/", h.ImportDeck)
				r.Get("/", h.ListDecks)
				r.Get("/{deckID}", h.GetDeck)
				r.Put("/{deckID}", h.UpdateDeck)
				r.Delete("/{deckID}", h.DeleteDeck)
				r.Put("/{deckID}/commander", h.SetCommander)
			})

			r.Get("/cards/info", h.CardInfo)
		})
	})
}
