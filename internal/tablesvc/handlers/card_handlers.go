package handlers

import (
	"errors"
	"net/http"

	"github.com/casillasalejandro22/mtg-table/internal/cardmeta"
)

// CardInfo serves display metadata for one card by name, with optional
// set code and collector number for a specific printing.
func (h *Handler) CardInfo(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "name is required"})
		return
	}

	info, err := h.cards.Lookup(r.Context(), name, r.URL.Query().Get("set"), r.URL.Query().Get("number"))
	if err != nil {
		if errors.Is(err, cardmeta.ErrNotFound) {
			h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "card not found"})
			return
		}
		h.writeError(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "card info", Code: http.StatusOK, Data: info})
}
