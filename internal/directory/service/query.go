package service

import (
	"context"
	"fmt"
	"time"

	"ms-directory/internal/directory"
	"ms-directory/internal/models"
	"ms-directory/internal/utils"
)

const DefaultListLimit = 10

// DirectoryReader is the read side of the directory store.
type DirectoryReader interface {
	ListRecentVenues(ctx context.Context, limit int) ([]models.Venue, error)
	ListRecentArtists(ctx context.Context, limit int) ([]models.Artist, error)
	SearchVenues(ctx context.Context, term string) ([]models.Venue, error)
	SearchArtists(ctx context.Context, term string) ([]models.Artist, error)
	GetVenueByID(ctx context.Context, id int64) (*models.Venue, error)
	GetArtistByID(ctx context.Context, id int64) (*models.Artist, error)
	ShowsAtVenue(ctx context.Context, venueID int64) ([]models.Show, error)
	ShowsByArtist(ctx context.Context, artistID int64) ([]models.Show, error)
	ShowTimesForVenues(ctx context.Context, venueIDs []int64) ([]models.Show, error)
	ShowTimesForArtists(ctx context.Context, artistIDs []int64) ([]models.Show, error)
	ListShows(ctx context.Context) ([]models.Show, error)
	GetShowByID(ctx context.Context, id int64) (*models.Show, error)
}

type QueryService struct {
	DB        DirectoryReader
	Clock     directory.Clock
	ListLimit int
}

func NewQueryService(db DirectoryReader, clock directory.Clock, listLimit int) *QueryService {
	if clock == nil {
		clock = directory.SystemClock{}
	}
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &QueryService{DB: db, Clock: clock, ListLimit: listLimit}
}

// ListVenues returns the most recent venues grouped by city and state.
// Areas appear in the order their first venue was listed.
func (s *QueryService) ListVenues(ctx context.Context) ([]Area, error) {
	venues, err := s.DB.ListRecentVenues(ctx, s.ListLimit)
	if err != nil {
		return nil, directory.Classify("list venues", err)
	}

	upcoming, err := s.upcomingByVenue(ctx, venues)
	if err != nil {
		return nil, directory.Classify("list venues", err)
	}

	areas := make([]Area, 0)
	byKey := make(map[string]int)
	for i := range venues {
		v := &venues[i]
		key := v.AreaKey()
		idx, ok := byKey[key]
		if !ok {
			idx = len(areas)
			byKey[key] = idx
			areas = append(areas, Area{City: v.City, State: v.State})
		}
		areas[idx].Venues = append(areas[idx].Venues, VenueSummary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: upcoming[v.ID],
		})
	}
	return areas, nil
}

func (s *QueryService) ListArtists(ctx context.Context) ([]ArtistSummary, error) {
	artists, err := s.DB.ListRecentArtists(ctx, s.ListLimit)
	if err != nil {
		return nil, directory.Classify("list artists", err)
	}

	out := make([]ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, ArtistSummary{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

func (s *QueryService) SearchVenues(ctx context.Context, term string) (*VenueSearchResult, error) {
	venues, err := s.DB.SearchVenues(ctx, term)
	if err != nil {
		return nil, directory.Classify("search venues", err)
	}

	upcoming, err := s.upcomingByVenue(ctx, venues)
	if err != nil {
		return nil, directory.Classify("search venues", err)
	}

	result := &VenueSearchResult{Count: len(venues), Data: make([]VenueSummary, 0, len(venues))}
	for _, v := range venues {
		result.Data = append(result.Data, VenueSummary{ID: v.ID, Name: v.Name, NumUpcomingShows: upcoming[v.ID]})
	}
	return result, nil
}

func (s *QueryService) SearchArtists(ctx context.Context, term string) (*ArtistSearchResult, error) {
	artists, err := s.DB.SearchArtists(ctx, term)
	if err != nil {
		return nil, directory.Classify("search artists", err)
	}

	ids := make([]int64, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	shows, err := s.DB.ShowTimesForArtists(ctx, ids)
	if err != nil {
		return nil, directory.Classify("search artists", err)
	}
	upcoming := countUpcoming(shows, s.Clock.Now(), func(show models.Show) int64 { return show.ArtistID })

	result := &ArtistSearchResult{Count: len(artists), Data: make([]ArtistMatch, 0, len(artists))}
	for _, a := range artists {
		result.Data = append(result.Data, ArtistMatch{ID: a.ID, Name: a.Name, NumUpcomingShows: upcoming[a.ID]})
	}
	return result, nil
}

// VenueDetail returns the venue with its shows split into past and upcoming.
func (s *QueryService) VenueDetail(ctx context.Context, id int64) (*VenueDetail, error) {
	const op = "venue detail"

	venue, err := s.DB.GetVenueByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, err, "venue %d not found", id)
	}

	shows, err := s.DB.ShowsAtVenue(ctx, id)
	if err != nil {
		return nil, directory.Classify(op, err)
	}

	detail := &VenueDetail{
		ID:                 venue.ID,
		Name:               venue.Name,
		Genres:             genreList(venue.Genres),
		Address:            venue.Address,
		City:               venue.City,
		State:              venue.State,
		Phone:              venue.Phone,
		Website:            venue.WebsiteLink,
		FacebookLink:       venue.FacebookLink,
		SeekingTalent:      venue.SeekingTalent,
		SeekingDescription: venue.SeekingDescription,
		ImageLink:          venue.ImageLink,
		PastShows:          make([]VenueShow, 0),
		UpcomingShows:      make([]VenueShow, 0),
	}

	now := s.Clock.Now()
	for _, show := range shows {
		entry := VenueShow{ArtistID: show.ArtistID, StartTime: utils.FormatStartTime(show.StartTime)}
		if show.Artist != nil {
			entry.ArtistName = show.Artist.Name
			entry.ArtistImageLink = show.Artist.ImageLink
		}
		if models.IsUpcoming(show.StartTime, now) {
			detail.UpcomingShows = append(detail.UpcomingShows, entry)
		} else {
			detail.PastShows = append(detail.PastShows, entry)
		}
	}
	detail.PastShowsCount = len(detail.PastShows)
	detail.UpcomingShowsCount = len(detail.UpcomingShows)
	return detail, nil
}

// ArtistDetail returns the artist with its shows split into past and upcoming.
func (s *QueryService) ArtistDetail(ctx context.Context, id int64) (*ArtistDetail, error) {
	const op = "artist detail"

	artist, err := s.DB.GetArtistByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, err, "artist %d not found", id)
	}

	shows, err := s.DB.ShowsByArtist(ctx, id)
	if err != nil {
		return nil, directory.Classify(op, err)
	}

	detail := &ArtistDetail{
		ID:                 artist.ID,
		Name:               artist.Name,
		Genres:             genreList(artist.Genres),
		City:               artist.City,
		State:              artist.State,
		Phone:              artist.Phone,
		Website:            artist.WebsiteLink,
		FacebookLink:       artist.FacebookLink,
		SeekingVenue:       artist.SeekingVenue,
		SeekingDescription: artist.SeekingDescription,
		ImageLink:          artist.ImageLink,
		PastShows:          make([]ArtistShow, 0),
		UpcomingShows:      make([]ArtistShow, 0),
	}

	now := s.Clock.Now()
	for _, show := range shows {
		entry := ArtistShow{VenueID: show.VenueID, StartTime: utils.FormatStartTime(show.StartTime)}
		if show.Venue != nil {
			entry.VenueName = show.Venue.Name
			entry.VenueImageLink = show.Venue.ImageLink
		}
		if models.IsUpcoming(show.StartTime, now) {
			detail.UpcomingShows = append(detail.UpcomingShows, entry)
		} else {
			detail.PastShows = append(detail.PastShows, entry)
		}
	}
	detail.PastShowsCount = len(detail.PastShows)
	detail.UpcomingShowsCount = len(detail.UpcomingShows)
	return detail, nil
}

// VenueRecord loads the stored venue for an edit form.
func (s *QueryService) VenueRecord(ctx context.Context, id int64) (*models.Venue, error) {
	venue, err := s.DB.GetVenueByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("venue record", err, "venue %d not found", id)
	}
	return venue, nil
}

func (s *QueryService) ArtistRecord(ctx context.Context, id int64) (*models.Artist, error) {
	artist, err := s.DB.GetArtistByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("artist record", err, "artist %d not found", id)
	}
	return artist, nil
}

// ListShows returns every show, most recently created first.
func (s *QueryService) ListShows(ctx context.Context) ([]ShowListing, error) {
	shows, err := s.DB.ListShows(ctx)
	if err != nil {
		return nil, directory.Classify("list shows", err)
	}

	out := make([]ShowListing, 0, len(shows))
	for _, show := range shows {
		out = append(out, showListing(show))
	}
	return out, nil
}

// ShowDetail returns one show. A show whose venue or artist was deleted is
// gone with it.
func (s *QueryService) ShowDetail(ctx context.Context, id int64) (*ShowListing, error) {
	show, err := s.DB.GetShowByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("show detail", err, "show %d not found", id)
	}
	listing := showListing(*show)
	return &listing, nil
}

func showListing(show models.Show) ShowListing {
	listing := ShowListing{
		ID:        show.ID,
		VenueID:   show.VenueID,
		ArtistID:  show.ArtistID,
		StartTime: utils.FormatStartTime(show.StartTime),
	}
	if show.Venue != nil {
		listing.VenueName = show.Venue.Name
	}
	if show.Artist != nil {
		listing.ArtistName = show.Artist.Name
		listing.ArtistImageLink = show.Artist.ImageLink
	}
	return listing
}

func (s *QueryService) upcomingByVenue(ctx context.Context, venues []models.Venue) (map[int64]int, error) {
	ids := make([]int64, 0, len(venues))
	for _, v := range venues {
		ids = append(ids, v.ID)
	}
	shows, err := s.DB.ShowTimesForVenues(ctx, ids)
	if err != nil {
		return nil, err
	}
	return countUpcoming(shows, s.Clock.Now(), func(show models.Show) int64 { return show.VenueID }), nil
}

// countUpcoming tallies upcoming shows per owner using the same predicate as
// the detail views.
func countUpcoming(shows []models.Show, now time.Time, owner func(models.Show) int64) map[int64]int {
	counts := make(map[int64]int)
	for _, show := range shows {
		if models.IsUpcoming(show.StartTime, now) {
			counts[owner(show)]++
		}
	}
	return counts
}

func genreList(g models.Genres) []string {
	if g == nil {
		return []string{}
	}
	return []string(g)
}

func notFoundOr(op string, err error, format string, args ...interface{}) error {
	classified := directory.Classify(op, err)
	if classified.Kind == directory.KindNotFound {
		return &directory.Error{Kind: directory.KindNotFound, Op: op, Err: fmt.Errorf(format+": %w", append(args, err)...)}
	}
	return classified
}
