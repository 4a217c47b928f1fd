package directory_api

import (
	"net/http"

	"ms-directory/internal/utils"
)

// ListVenues returns the recent venues grouped by area.
func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Queries.ListVenues(r.Context())
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, areas)
}

func (h *Handler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	term, err := searchTerm(w, r)
	if err != nil {
		writeBadRequest(w, "Invalid search", err)
		return
	}
	result, err := h.Queries.SearchVenues(r.Context(), term)
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

func (h *Handler) VenueDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueID")
	if err != nil {
		writeBadRequest(w, "Invalid venue id", err)
		return
	}
	venue, err := h.Queries.VenueDetail(r.Context(), id)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, venue)
}

// VenueRecord returns the stored venue for prefilling an edit form.
func (h *Handler) VenueRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueID")
	if err != nil {
		writeBadRequest(w, "Invalid venue id", err)
		return
	}
	venue, err := h.Queries.VenueRecord(r.Context(), id)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, venue)
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	in, err := decodeVenue(w, r)
	if err != nil {
		writeBadRequest(w, "Invalid venue", err)
		return
	}
	h.writeOutcome(w, h.Mutations.CreateVenue(r.Context(), in), http.StatusCreated)
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueID")
	if err != nil {
		writeBadRequest(w, "Invalid venue id", err)
		return
	}
	in, err := decodeVenue(w, r)
	if err != nil {
		writeBadRequest(w, "Invalid venue", err)
		return
	}
	h.writeOutcome(w, h.Mutations.UpdateVenue(r.Context(), id, in), http.StatusOK)
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "venueID")
	if err != nil {
		writeBadRequest(w, "Invalid venue id", err)
		return
	}
	h.writeOutcome(w, h.Mutations.DeleteVenue(r.Context(), id), http.StatusOK)
}
