package directory_api

import (
	"net/http"

	"ms-directory/internal/utils"
)

func (h *Handler) ListShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.Queries.ListShows(r.Context())
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, shows)
}

func (h *Handler) ShowDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "showID")
	if err != nil {
		writeBadRequest(w, "Invalid show id", err)
		return
	}
	show, err := h.Queries.ShowDetail(r.Context(), id)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, show)
}

func (h *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	in, err := decodeShow(w, r)
	if err != nil {
		writeBadRequest(w, "Invalid show", err)
		return
	}
	h.writeOutcome(w, h.Mutations.CreateShow(r.Context(), in), http.StatusCreated)
}
