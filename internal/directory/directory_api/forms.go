package directory_api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"ms-directory/internal/directory/service"
	"ms-directory/internal/utils"
)

const maxBodyBytes = 1 << 20

// Write endpoints take either a JSON body or the classic urlencoded form.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}

// formBool treats a checked checkbox ("y", "on", ...) as true.
func formBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}

func decodeVenue(w http.ResponseWriter, r *http.Request) (service.VenueInput, error) {
	var in service.VenueInput
	if isJSON(r) {
		err := decodeJSON(w, r, &in)
		return in, err
	}
	if err := parseForm(w, r); err != nil {
		return in, err
	}

	form := r.PostForm
	in = service.VenueInput{
		Name:               form.Get("name"),
		City:               form.Get("city"),
		State:              form.Get("state"),
		Address:            form.Get("address"),
		Phone:              form.Get("phone"),
		ImageLink:          form.Get("image_link"),
		Genres:             form["genres"],
		FacebookLink:       form.Get("facebook_link"),
		WebsiteLink:        form.Get("website_link"),
		SeekingTalent:      formBool(form.Get("seeking_talent")),
		SeekingDescription: form.Get("seeking_description"),
	}
	return in, nil
}

func decodeArtist(w http.ResponseWriter, r *http.Request) (service.ArtistInput, error) {
	var in service.ArtistInput
	if isJSON(r) {
		err := decodeJSON(w, r, &in)
		return in, err
	}
	if err := parseForm(w, r); err != nil {
		return in, err
	}

	form := r.PostForm
	in = service.ArtistInput{
		Name:               form.Get("name"),
		City:               form.Get("city"),
		State:              form.Get("state"),
		Phone:              form.Get("phone"),
		ImageLink:          form.Get("image_link"),
		Genres:             form["genres"],
		FacebookLink:       form.Get("facebook_link"),
		WebsiteLink:        form.Get("website_link"),
		SeekingVenue:       formBool(form.Get("seeking_venue")),
		SeekingDescription: form.Get("seeking_description"),
	}
	return in, nil
}

type showForm struct {
	ArtistID  json.Number `json:"artist_id"`
	VenueID   json.Number `json:"venue_id"`
	StartTime string      `json:"start_time"`
}

func decodeShow(w http.ResponseWriter, r *http.Request) (service.ShowInput, error) {
	var form showForm
	if isJSON(r) {
		if err := decodeJSON(w, r, &form); err != nil {
			return service.ShowInput{}, err
		}
	} else {
		if err := parseForm(w, r); err != nil {
			return service.ShowInput{}, err
		}
		form = showForm{
			ArtistID:  json.Number(r.PostForm.Get("artist_id")),
			VenueID:   json.Number(r.PostForm.Get("venue_id")),
			StartTime: r.PostForm.Get("start_time"),
		}
	}

	artistID, err := strconv.ParseInt(strings.TrimSpace(form.ArtistID.String()), 10, 64)
	if err != nil {
		return service.ShowInput{}, fmt.Errorf("invalid artist_id %q", form.ArtistID)
	}
	venueID, err := strconv.ParseInt(strings.TrimSpace(form.VenueID.String()), 10, 64)
	if err != nil {
		return service.ShowInput{}, fmt.Errorf("invalid venue_id %q", form.VenueID)
	}
	startTime, err := utils.ParseStartTime(form.StartTime)
	if err != nil {
		return service.ShowInput{}, err
	}
	return service.ShowInput{ArtistID: artistID, VenueID: venueID, StartTime: startTime}, nil
}

// searchTerm reads search_term from the query string, a form or a JSON body.
func searchTerm(w http.ResponseWriter, r *http.Request) (string, error) {
	if r.Method == http.MethodPost && isJSON(r) {
		var body struct {
			SearchTerm string `json:"search_term"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			return "", err
		}
		return strings.TrimSpace(body.SearchTerm), nil
	}
	if r.Method == http.MethodPost {
		if err := parseForm(w, r); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(r.FormValue("search_term")), nil
}
