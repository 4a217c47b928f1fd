package directory_api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ms-directory/internal/directory"
	"ms-directory/internal/directory/service"
	"ms-directory/internal/logger"
	"ms-directory/internal/models"
	"ms-directory/internal/utils"
)

type Queries interface {
	ListVenues(ctx context.Context) ([]service.Area, error)
	SearchVenues(ctx context.Context, term string) (*service.VenueSearchResult, error)
	VenueDetail(ctx context.Context, id int64) (*service.VenueDetail, error)
	VenueRecord(ctx context.Context, id int64) (*models.Venue, error)
	ListArtists(ctx context.Context) ([]service.ArtistSummary, error)
	SearchArtists(ctx context.Context, term string) (*service.ArtistSearchResult, error)
	ArtistDetail(ctx context.Context, id int64) (*service.ArtistDetail, error)
	ArtistRecord(ctx context.Context, id int64) (*models.Artist, error)
	ListShows(ctx context.Context) ([]service.ShowListing, error)
	ShowDetail(ctx context.Context, id int64) (*service.ShowListing, error)
}

type Mutations interface {
	CreateVenue(ctx context.Context, in service.VenueInput) directory.Outcome
	UpdateVenue(ctx context.Context, id int64, in service.VenueInput) directory.Outcome
	DeleteVenue(ctx context.Context, id int64) directory.Outcome
	CreateArtist(ctx context.Context, in service.ArtistInput) directory.Outcome
	UpdateArtist(ctx context.Context, id int64, in service.ArtistInput) directory.Outcome
	DeleteArtist(ctx context.Context, id int64) directory.Outcome
	CreateShow(ctx context.Context, in service.ShowInput) directory.Outcome
}

type Handler struct {
	Queries   Queries
	Mutations Mutations
	Logger    *logger.Logger
}

func NewHandler(queries Queries, mutations Mutations, log *logger.Logger) *Handler {
	return &Handler{Queries: queries, Mutations: mutations, Logger: log}
}

// RegisterRoutes mounts the venue, artist and show endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Use(h.logRequests)

	r.Get("/healthz", h.Health)

	r.Route("/venues", func(r chi.Router) {
		r.Get("/", h.ListVenues)
		r.Get("/search", h.SearchVenues)
		r.Post("/search", h.SearchVenues)
		r.Post("/create", h.CreateVenue)
		r.Get("/{venueID}", h.VenueDetail)
		r.Delete("/{venueID}", h.DeleteVenue)
		r.Get("/{venueID}/edit", h.VenueRecord)
		r.Post("/{venueID}/edit", h.UpdateVenue)
	})

	r.Route("/artists", func(r chi.Router) {
		r.Get("/", h.ListArtists)
		r.Get("/search", h.SearchArtists)
		r.Post("/search", h.SearchArtists)
		r.Post("/create", h.CreateArtist)
		r.Get("/{artistID}", h.ArtistDetail)
		r.Delete("/{artistID}", h.DeleteArtist)
		r.Get("/{artistID}/edit", h.ArtistRecord)
		r.Post("/{artistID}/edit", h.UpdateArtist)
	})

	r.Route("/shows", func(r chi.Router) {
		r.Get("/", h.ListShows)
		r.Post("/create", h.CreateShow)
		r.Get("/{showID}", h.ShowDetail)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForKind maps a failure kind to its HTTP status.
func statusForKind(kind directory.Kind) int {
	switch kind {
	case directory.KindNone:
		return http.StatusOK
	case directory.KindNotFound:
		return http.StatusNotFound
	case directory.KindConstraintViolation:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

// writeOutcome reports a mutation. successStatus is used when it committed.
func (h *Handler) writeOutcome(w http.ResponseWriter, out directory.Outcome, successStatus int) {
	if out.Success {
		utils.WriteJSON(w, successStatus, utils.SuccessResponse(out.Message, map[string]int64{"id": out.ID}))
		return
	}
	utils.WriteJSON(w, statusForKind(out.Kind), utils.ErrorResponse(out.Message, out.Kind.String()))
}

// writeReadError reports a failed query without exposing the cause.
func (h *Handler) writeReadError(w http.ResponseWriter, r *http.Request, err error) {
	kind := directory.KindOf(err)
	message := "The directory is temporarily unavailable."
	if kind == directory.KindNotFound {
		message = "The requested record does not exist."
	} else {
		h.Logger.Error("API", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
	utils.WriteJSON(w, statusForKind(kind), utils.ErrorResponse(message, kind.String()))
}

func writeBadRequest(w http.ResponseWriter, message string, err error) {
	utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(fmt.Sprintf("%s: %v", message, err), "bad_request"))
}

// pathID reads a numeric route parameter.
func pathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return id, nil
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).String())
	})
}
