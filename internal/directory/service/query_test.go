package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-directory/internal/directory"
	"ms-directory/internal/directory/db"
	"ms-directory/internal/directory/db/dbtest"
	"ms-directory/internal/directory/service"
	"ms-directory/internal/models"
)

var now = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

type fixture struct {
	db       *db.DB
	queries  *service.QueryService
	mutation *service.MutationService
	events   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	directoryDB, _ := dbtest.New(t)
	clock := directory.FixedClock(now)
	events := &recordingPublisher{}
	return &fixture{
		db:       directoryDB,
		queries:  service.NewQueryService(directoryDB, clock, 10),
		mutation: service.NewMutationService(directoryDB, events, nil, clock),
		events:   events,
	}
}

func (f *fixture) venue(t *testing.T, name, city, state string) int64 {
	t.Helper()
	out := f.mutation.CreateVenue(context.Background(), service.VenueInput{
		Name:    name,
		City:    city,
		State:   state,
		Address: "1 Main Street",
		Genres:  []string{"Jazz"},
	})
	require.True(t, out.Success, out.Message)
	return out.ID
}

func (f *fixture) artist(t *testing.T, name string) int64 {
	t.Helper()
	out := f.mutation.CreateArtist(context.Background(), service.ArtistInput{
		Name:      name,
		City:      "San Francisco",
		State:     "CA",
		Genres:    []string{"Rock n Roll"},
		ImageLink: "https://img.example.com/" + name,
	})
	require.True(t, out.Success, out.Message)
	return out.ID
}

func (f *fixture) show(t *testing.T, artistID, venueID int64, start time.Time) int64 {
	t.Helper()
	out := f.mutation.CreateShow(context.Background(), service.ShowInput{ArtistID: artistID, VenueID: venueID, StartTime: start})
	require.True(t, out.Success, out.Message)
	return out.ID
}

func TestListVenuesGroupsByAreaIgnoringCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fillmore := f.venue(t, "The Fillmore", "San Francisco", "CA")
	f.venue(t, "Stubb's", "Austin", "TX")
	independent := f.venue(t, "The Independent", "san francisco", "ca")

	artist := f.artist(t, "Guns N Petals")
	f.show(t, artist, fillmore, now.Add(time.Hour))
	f.show(t, artist, fillmore, now.Add(-time.Hour))
	f.show(t, artist, independent, now.Add(48*time.Hour))

	areas, err := f.queries.ListVenues(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 2)

	// newest venue first, so its spelling names the area
	assert.Equal(t, "san francisco", areas[0].City)
	assert.Equal(t, "ca", areas[0].State)
	require.Len(t, areas[0].Venues, 2)
	assert.Equal(t, service.VenueSummary{ID: independent, Name: "The Independent", NumUpcomingShows: 1}, areas[0].Venues[0])
	assert.Equal(t, service.VenueSummary{ID: fillmore, Name: "The Fillmore", NumUpcomingShows: 1}, areas[0].Venues[1])

	assert.Equal(t, "Austin", areas[1].City)
	require.Len(t, areas[1].Venues, 1)
	assert.Zero(t, areas[1].Venues[0].NumUpcomingShows)
}

func TestListVenuesHonorsLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.venue(t, fmt.Sprintf("Venue %d", i), fmt.Sprintf("City %d", i), "TX")
	}

	areas, err := f.queries.ListVenues(context.Background())
	require.NoError(t, err)

	total := 0
	for _, a := range areas {
		total += len(a.Venues)
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, "Venue 11", areas[0].Venues[0].Name)
}

func TestListVenuesEmpty(t *testing.T) {
	f := newFixture(t)
	areas, err := f.queries.ListVenues(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, areas)
	assert.Empty(t, areas)
}

func TestListArtists(t *testing.T) {
	f := newFixture(t)
	first := f.artist(t, "Guns N Petals")
	second := f.artist(t, "Matt Quevedo")

	artists, err := f.queries.ListArtists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.ArtistSummary{
		{ID: second, Name: "Matt Quevedo"},
		{ID: first, Name: "Guns N Petals"},
	}, artists)
}

func TestSearchVenuesByPartialCity(t *testing.T) {
	f := newFixture(t)
	stubbs := f.venue(t, "Stubb's", "Austin", "TX")
	f.venue(t, "The Sinclair", "Cambridge", "MA")

	artist := f.artist(t, "The Wild Sax Band")
	f.show(t, artist, stubbs, now.Add(24*time.Hour))

	result, err := f.queries.SearchVenues(context.Background(), "AuS")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []service.VenueSummary{{ID: stubbs, Name: "Stubb's", NumUpcomingShows: 1}}, result.Data)

	none, err := f.queries.SearchVenues(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Zero(t, none.Count)
	assert.NotNil(t, none.Data)
}

func TestSearchArtistsByCityAndState(t *testing.T) {
	f := newFixture(t)
	artist := f.artist(t, "Guns N Petals")
	venue := f.venue(t, "The Fillmore", "San Francisco", "CA")
	f.show(t, artist, venue, now.Add(-24*time.Hour))

	result, err := f.queries.SearchArtists(context.Background(), "francisco, c")
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "Guns N Petals", result.Data[0].Name)
	assert.Zero(t, result.Data[0].NumUpcomingShows)
}

func TestVenueDetailPartitionsShows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	venue := f.venue(t, "The Fillmore", "San Francisco", "CA")
	artist := f.artist(t, "Guns N Petals")
	f.show(t, artist, venue, now.Add(-time.Hour))
	f.show(t, artist, venue, now)
	f.show(t, artist, venue, now.Add(time.Hour))

	detail, err := f.queries.VenueDetail(ctx, venue)
	require.NoError(t, err)
	assert.Equal(t, "The Fillmore", detail.Name)
	assert.Equal(t, []string{"Jazz"}, detail.Genres)

	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 2, detail.UpcomingShowsCount)
	require.Len(t, detail.PastShows, 1)
	assert.Equal(t, service.VenueShow{
		ArtistID:        artist,
		ArtistName:      "Guns N Petals",
		ArtistImageLink: "https://img.example.com/Guns N Petals",
		StartTime:       "2026-06-01 19:00:00",
	}, detail.PastShows[0])
	// a show starting exactly now is upcoming
	assert.Equal(t, "2026-06-01 20:00:00", detail.UpcomingShows[0].StartTime)
}

func TestArtistDetailPartitionsShows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	venue := f.venue(t, "The Fillmore", "San Francisco", "CA")
	artist := f.artist(t, "Matt Quevedo")
	f.show(t, artist, venue, now.Add(-72*time.Hour))
	f.show(t, artist, venue, now.Add(72*time.Hour))

	detail, err := f.queries.ArtistDetail(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 1, detail.UpcomingShowsCount)
	assert.Equal(t, service.ArtistShow{
		VenueID:   venue,
		VenueName: "The Fillmore",
		StartTime: "2026-06-04 20:00:00",
	}, detail.UpcomingShows[0])
}

func TestDetailWithoutShows(t *testing.T) {
	f := newFixture(t)
	venue := f.venue(t, "Empty Hall", "Reno", "NV")

	detail, err := f.queries.VenueDetail(context.Background(), venue)
	require.NoError(t, err)
	assert.NotNil(t, detail.PastShows)
	assert.NotNil(t, detail.UpcomingShows)
	assert.Zero(t, detail.PastShowsCount+detail.UpcomingShowsCount)
}

func TestDetailNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.queries.VenueDetail(ctx, 404)
	assert.ErrorIs(t, err, directory.ErrNotFound)

	_, err = f.queries.ArtistDetail(ctx, 404)
	assert.ErrorIs(t, err, directory.ErrNotFound)

	_, err = f.queries.VenueRecord(ctx, 404)
	assert.ErrorIs(t, err, directory.ErrNotFound)

	_, err = f.queries.ArtistRecord(ctx, 404)
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestVenueRecordDecodesGenres(t *testing.T) {
	f := newFixture(t)
	out := f.mutation.CreateVenue(context.Background(), service.VenueInput{
		Name:    "Park Square Live Music & Coffee",
		City:    "San Francisco",
		State:   "CA",
		Address: "34 Whiskey Moore Ave",
		Genres:  []string{"Rock n Roll", "Jazz", "Classical"},
	})
	require.True(t, out.Success)

	venue, err := f.queries.VenueRecord(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Genres{"Rock n Roll", "Jazz", "Classical"}, venue.Genres)
}

func TestListShows(t *testing.T) {
	f := newFixture(t)
	venue := f.venue(t, "The Fillmore", "San Francisco", "CA")
	first := f.artist(t, "Guns N Petals")
	second := f.artist(t, "Matt Quevedo")
	f.show(t, first, venue, now.Add(time.Hour))
	f.show(t, second, venue, now.Add(2*time.Hour))

	shows, err := f.queries.ListShows(context.Background())
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "Matt Quevedo", shows[0].ArtistName)
	assert.Equal(t, "The Fillmore", shows[0].VenueName)
	assert.Equal(t, "https://img.example.com/Matt Quevedo", shows[0].ArtistImageLink)
	assert.Equal(t, "2026-06-01 22:00:00", shows[0].StartTime)
	assert.Equal(t, "Guns N Petals", shows[1].ArtistName)
}

// MockReader stubs the read side to exercise storage failures.
type MockReader struct {
	mock.Mock
	service.DirectoryReader
}

func (m *MockReader) ListRecentVenues(ctx context.Context, limit int) ([]models.Venue, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockReader) ShowTimesForVenues(ctx context.Context, ids []int64) ([]models.Show, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Show), args.Error(1)
}

func TestListVenuesStorageFailure(t *testing.T) {
	reader := new(MockReader)
	reader.On("ListRecentVenues", 10).Return(nil, errors.New("connection reset by peer"))

	queries := service.NewQueryService(reader, directory.FixedClock(now), 0)
	_, err := queries.ListVenues(context.Background())

	assert.ErrorIs(t, err, directory.ErrTransientFailure)
	reader.AssertExpectations(t)
}

func TestListVenuesCountsWithMockedShows(t *testing.T) {
	reader := new(MockReader)
	reader.On("ListRecentVenues", 10).Return([]models.Venue{
		{ID: 2, Name: "B", City: "Portland", State: "OR"},
		{ID: 1, Name: "A", City: "PORTLAND", State: "or"},
	}, nil)
	reader.On("ShowTimesForVenues", []int64{2, 1}).Return([]models.Show{
		{VenueID: 1, StartTime: now.Add(time.Minute)},
		{VenueID: 1, StartTime: now.Add(time.Hour)},
		{VenueID: 2, StartTime: now.Add(-time.Minute)},
	}, nil)

	queries := service.NewQueryService(reader, directory.FixedClock(now), 10)
	areas, err := queries.ListVenues(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, []service.VenueSummary{
		{ID: 2, Name: "B", NumUpcomingShows: 0},
		{ID: 1, Name: "A", NumUpcomingShows: 2},
	}, areas[0].Venues)
	reader.AssertExpectations(t)
}
