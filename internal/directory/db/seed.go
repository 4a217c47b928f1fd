package db

import (
	"context"
	"fmt"
	"time"

	"ms-directory/internal/models"
)

// Seed inserts a small sample directory. Show times are placed around now so
// both past and upcoming listings have entries.
func (d *DB) Seed(ctx context.Context, now time.Time) error {
	return d.InTx(ctx, func(ctx context.Context, tx *DB) error {
		venues := []*models.Venue{
			{
				Name:               "The Musical Hop",
				City:               "San Francisco",
				State:              "CA",
				Address:            "1015 Folsom Street",
				Phone:              "123-123-1234",
				Genres:             models.NewGenres("Jazz", "Reggae", "Swing", "Classical", "Folk"),
				WebsiteLink:        "https://www.themusicalhop.com",
				FacebookLink:       "https://www.facebook.com/TheMusicalHop",
				SeekingTalent:      true,
				SeekingDescription: "We are on the lookout for a local artist to play every two weeks.",
			},
			{
				Name:    "The Dueling Pianos Bar",
				City:    "New York",
				State:   "NY",
				Address: "335 Delancey Street",
				Phone:   "914-003-1132",
				Genres:  models.NewGenres("Classical", "R&B", "Hip-Hop"),
			},
			{
				Name:    "Park Square Live Music & Coffee",
				City:    "San Francisco",
				State:   "CA",
				Address: "34 Whiskey Moore Ave",
				Phone:   "415-000-1234",
				Genres:  models.NewGenres("Rock n Roll", "Jazz", "Classical", "Folk"),
			},
		}
		for _, v := range venues {
			if err := tx.CreateVenue(ctx, v); err != nil {
				return fmt.Errorf("seed venue %q: %w", v.Name, err)
			}
		}

		artists := []*models.Artist{
			{
				Name:               "Guns N Petals",
				City:               "San Francisco",
				State:              "CA",
				Phone:              "326-123-5000",
				Genres:             models.NewGenres("Rock n Roll"),
				SeekingVenue:       true,
				SeekingDescription: "Looking for shows to perform at in the San Francisco Bay Area!",
			},
			{
				Name:   "Matt Quevedo",
				City:   "New York",
				State:  "NY",
				Phone:  "300-400-5000",
				Genres: models.NewGenres("Jazz"),
			},
			{
				Name:   "The Wild Sax Band",
				City:   "San Francisco",
				State:  "CA",
				Phone:  "432-325-5432",
				Genres: models.NewGenres("Jazz", "Classical"),
			},
		}
		for _, a := range artists {
			if err := tx.CreateArtist(ctx, a); err != nil {
				return fmt.Errorf("seed artist %q: %w", a.Name, err)
			}
		}

		day := 24 * time.Hour
		shows := []*models.Show{
			{VenueID: venues[0].ID, ArtistID: artists[0].ID, StartTime: now.Add(-30 * day)},
			{VenueID: venues[2].ID, ArtistID: artists[1].ID, StartTime: now.Add(-7 * day)},
			{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: now.Add(14 * day)},
			{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: now.Add(21 * day)},
			{VenueID: venues[1].ID, ArtistID: artists[2].ID, StartTime: now.Add(28 * day)},
		}
		for _, s := range shows {
			s.StartTime = s.StartTime.UTC().Truncate(time.Second)
			if err := tx.CreateShow(ctx, s); err != nil {
				return fmt.Errorf("seed show: %w", err)
			}
		}
		return nil
	})
}
