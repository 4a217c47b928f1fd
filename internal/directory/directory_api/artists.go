package directory_api

import (
	"net/http"

	"ms-directory/internal/utils"
)

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.Queries.ListArtists(r.Context())
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, artists)
}

func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	term, err := searchTerm(w, r)
	if err != nil {
		writeBadRequest(w, "Invalid search", err)
		return
	}
	result, err := h.Queries.SearchArtists(r.Context(), term)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"search_term": term,
		"count":       result.Count,
		"data":        result.Data,
	})
}

func (h *Handler) ArtistDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistID")
	if err != nil {
		writeBadRequest(w, "Invalid artist id", err)
		return
	}
	artist, err := h.Queries.ArtistDetail(r.Context(), id)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, artist)
}

func (h *Handler) ArtistRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistID")
	if err != nil {
		writeBadRequest(w, "Invalid artist id", err)
		return
	}
	artist, err := h.Queries.ArtistRecord(r.Context(), id)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, artist)
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	in, err := decodeArtist(w, r)
	if err != nil {
		writeBadRequest(w, "Invalid artist", err)
		return
	}
	h.writeOutcome(w, h.Mutations.CreateArtist(r.Context(), in), http.StatusCreated)
}

func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistID")
	if err != nil {
		writeBadRequest(w, "Invalid artist id", err)
		return
	}
	in, err := decodeArtist(w, r)
	if err != nil {
		writeBadRequest(w, "Invalid artist", err)
		return
	}
	h.writeOutcome(w, h.Mutations.UpdateArtist(r.Context(), id, in), http.StatusOK)
}

func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "artistID")
	if err != nil {
		writeBadRequest(w, "Invalid artist id", err)
		return
	}
	h.writeOutcome(w, h.Mutations.DeleteArtist(r.Context(), id), http.StatusOK)
}
